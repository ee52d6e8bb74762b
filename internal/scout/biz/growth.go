package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/pkg/llm"
)

const growthPersona = "You are a growth strategy analyst for venture capital. " +
	"Your role is to assess the scalability, innovation, and exit potential of early-stage startups."

// GrowthStage scores long-term potential. It depends on the benchmark
// report in addition to the profile.
type GrowthStage struct {
	invoker   Invoker
	knowledge *Knowledge
	tiers     ModelTiers
}

// NewGrowthStage creates the growth assessment stage.
func NewGrowthStage(invoker Invoker, knowledge *Knowledge, tiers ModelTiers) *GrowthStage {
	return &GrowthStage{invoker: invoker, knowledge: knowledge, tiers: tiers}
}

// Run assesses growth potential. Failures degrade to the default assessment.
func (s *GrowthStage) Run(ctx context.Context, runID string, profile *model.Profile, benchmark *model.BenchmarkReport) *model.GrowthAssessment {
	logger.Infow("Stage 5: growth assessment", "run_id", runID)

	pmfContext := s.knowledge.Retrieve(ctx,
		"Evidence of product-market fit: customer feedback, retention, satisfaction, demand", runID, 5)
	moatContext := s.knowledge.Retrieve(ctx,
		"What makes the product unique? Competitive advantages? Technology? Patents? Network effects?", runID, 5)
	scaleContext := s.knowledge.Retrieve(ctx,
		"Business model scalability? Unit economics? Expansion plans? International potential?", runID, 5)
	executionContext := s.knowledge.Retrieve(ctx,
		"Milestones achieved? Progress timeline? Execution speed? Team capabilities?", runID, 5)

	prompt := fmt.Sprintf(`You are a growth strategy analyst for venture capital.

STARTUP DATA:
%s

BENCHMARK COMPARISON:
%s

PRODUCT-MARKET FIT EVIDENCE:
%s

COMPETITIVE MOAT:
%s

SCALABILITY:
%s

EXECUTION CAPABILITY:
%s

Assess growth potential across 5 dimensions and return ONLY valid JSON:

{
  "growth_scores": {
    "market_opportunity": {
      "score": number_from_1_to_10,
      "reasoning": "Why this score",
      "evidence": ["Evidence point 1", "Evidence point 2"]
    },
    "competitive_moat": {
      "score": number_from_1_to_10,
      "reasoning": "Why this score",
      "evidence": ["Evidence point 1", "Evidence point 2"],
      "moat_type": "Network Effects|Technology|Brand|Data|Switching Costs|None"
    },
    "product_innovation": {
      "score": number_from_1_to_10,
      "reasoning": "Why this score",
      "evidence": ["Evidence point 1", "Evidence point 2"],
      "innovation_level": "Breakthrough|Significant|Incremental|Me-too"
    },
    "scalability": {
      "score": number_from_1_to_10,
      "reasoning": "Why this score",
      "evidence": ["Evidence point 1", "Evidence point 2"],
      "bottlenecks": ["Bottleneck 1", "Bottleneck 2"]
    },
    "team_execution": {
      "score": number_from_1_to_10,
      "reasoning": "Why this score",
      "evidence": ["Evidence point 1", "Evidence point 2"],
      "key_strengths": ["Strength 1", "Strength 2"],
      "key_gaps": ["Gap 1", "Gap 2"]
    }
  },
  "overall_growth_score": number_from_1_to_10,
  "growth_trajectory": "Exponential|Linear|Stagnant|Declining",
  "time_to_scale": "< 2 years|2-4 years|4+ years|Unclear",
  "exit_potential": {
    "likely_outcome": "IPO|Acquisition|Strategic Sale|Other",
    "estimated_timeline": "years or Unknown",
    "potential_acquirers": ["Company 1", "Company 2"] or [],
    "exit_multiple_estimate": "range or Unknown"
  },
  "growth_plan_quality": {
    "score": number_from_1_to_10,
    "has_clear_strategy": true_or_false,
    "key_milestones": ["Milestone 1", "Milestone 2"],
    "risks_to_plan": ["Risk 1", "Risk 2"]
  },
  "recommendation_summary": "2-3 sentences on growth potential"
}

Scoring Guidelines:
- 9-10: Exceptional, top 5%% potential
- 7-8: Strong, above average
- 5-6: Average, meets expectations
- 3-4: Below average, concerns
- 1-2: Weak, significant issues

Return ONLY JSON.`,
		compactJSON(profile), compactJSON(benchmark),
		pmfContext, moatContext, scaleContext, executionContext)

	assessment := model.DefaultGrowthAssessment()
	_, err := invokeInto(ctx, s.invoker, &llm.GenerateRequest{
		Model:             s.tiers.Fast,
		SystemInstruction: growthPersona,
		Prompt:            prompt,
	}, assessment)
	if err != nil {
		logger.Errorw("Growth assessment failed, using default assessment", "run_id", runID, "error", err.Error())
		return model.DefaultGrowthAssessment()
	}

	logger.Infow("Growth assessment complete", "run_id", runID, "overall_growth_score", assessment.OverallGrowthScore)
	return assessment
}
