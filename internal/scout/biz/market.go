package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/pkg/llm"
)

const marketPersona = "You are a world-class Market Research Analyst for a top-tier VC firm. " +
	"Your objective is to validate market size, identify emerging trends, and perform " +
	"a deep-dive competitive analysis. Use Google Search to find current data."

// MarketStage validates the market and maps the competitive landscape
// using live search grounding.
type MarketStage struct {
	invoker   Invoker
	knowledge *Knowledge
	tiers     ModelTiers
}

// NewMarketStage creates the market research stage.
func NewMarketStage(invoker Invoker, knowledge *Knowledge, tiers ModelTiers) *MarketStage {
	return &MarketStage{invoker: invoker, knowledge: knowledge, tiers: tiers}
}

// Run performs the market analysis. Failures degrade to the default
// analysis rather than interrupting the pipeline.
func (s *MarketStage) Run(ctx context.Context, runID string, profile *model.Profile) *model.MarketAnalysis {
	logger.Infow("Stage 2: market research", "run_id", runID, "sector", profile.CompanyInfo.Sector)

	internalContext := s.knowledge.Retrieve(ctx,
		"Direct and indirect competitors mentioned, market sizing claims, TAM/SAM/SOM", runID, 0)

	prompt := fmt.Sprintf(`You are a market research analyst for venture capital.

USE GOOGLE SEARCH to find current (live) data for:
- %s market trends and TAM/CAGR for the current year.
- Direct and indirect competitors for a startup doing "%s" to solve "%s".
- Specific details on top competitors: their strengths, weaknesses, and current growth trajectory.

STARTUP:
Name: %s
Sector: %s
Problem: %s
Solution: %s

INTERNAL CONTEXT FROM FOUNDER:
%s

Analyze market opportunity and return ONLY valid JSON:

{
  "market_insights": {
    "market_size_estimate": "TAM estimate with source or Unknown",
    "growth_rate": "Market CAGR or monthly growth %%",
    "key_trends": ["Trend 1", "Trend 2"],
    "market_maturity": "Emerging|Growing|Mature|Declining"
  },
  "competition": {
    "competitive_intensity": "Low|Medium|High|Very High",
    "competitors": [
      {
        "name": "Competitor Name",
        "strengths": ["Strength 1", "Strength 2"],
        "weaknesses": ["Weakness 1", "Weakness 2"],
        "market_gap": "The specific gap this startup fills vs this competitor",
        "estimated_growth": "Known or estimated growth rate"
      }
    ],
    "differentiation_potential": "Strong|Moderate|Weak"
  },
  "validation": {
    "problem_validation": "1-2 sentence assessment if this is a real burning problem",
    "solution_fit": "Does solution address problem well?",
    "timing": "Is now the right time (Why now?)"
  },
  "credibility_score": number_from_0_to_100,
  "summary": "2-3 sentence market assessment"
}

Rules:
- Focus on the COMPETITORS section. Provide detailed strengths, weaknesses, and gaps.
- Use real-time search results to find peers the founder might have missed.
- Return ONLY JSON.`,
		profile.CompanyInfo.Sector,
		profile.Business.Solution, profile.Business.Problem,
		profile.CompanyInfo.Name, profile.CompanyInfo.Sector,
		profile.Business.Problem, profile.Business.Solution,
		internalContext)

	analysis := model.DefaultMarketAnalysis()
	_, err := invokeInto(ctx, s.invoker, &llm.GenerateRequest{
		Model:             s.tiers.Pro,
		SystemInstruction: marketPersona,
		Prompt:            prompt,
		EnableSearch:      true,
	}, analysis)
	if err != nil {
		logger.Errorw("Market research failed, using default analysis", "run_id", runID, "error", err.Error())
		return model.DefaultMarketAnalysis()
	}

	logger.Infow("Market research complete", "run_id", runID, "credibility_score", analysis.CredibilityScore)
	return analysis
}
