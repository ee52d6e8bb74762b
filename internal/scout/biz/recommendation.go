package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/pkg/llm"
)

const recommendationPersona = "You are a senior venture capital partner making final investment decisions. " +
	"Your role is to review all analyst inputs and determine the final deal score and verdict. " +
	"You focus on identifying high-conviction opportunities and protecting the fund from tail risks."

// RecommendationStage synthesizes all stage outputs into the final memo.
type RecommendationStage struct {
	invoker Invoker
	tiers   ModelTiers
}

// NewRecommendationStage creates the final synthesis stage.
func NewRecommendationStage(invoker Invoker, tiers ModelTiers) *RecommendationStage {
	return &RecommendationStage{invoker: invoker, tiers: tiers}
}

// Run produces the final investment memo. Failures degrade to the
// default Watch memo.
func (s *RecommendationStage) Run(
	ctx context.Context,
	runID string,
	profile *model.Profile,
	market *model.MarketAnalysis,
	risks *model.RiskAudit,
	benchmark *model.BenchmarkReport,
	growth *model.GrowthAssessment,
	notes string,
) *model.Deliverable {
	logger.Infow("Stage 6: final recommendation", "run_id", runID, "company", profile.CompanyInfo.Name)

	prompt := fmt.Sprintf(`You are a senior venture capital partner. Review the following intelligence from your analyst team:

1. STARTUP PROFILE (Data Associate):
%s

2. RISK AUDIT (Forensic Auditor):
%s

3. MARKET RESEARCH & COMPETITIVE INTEL (Market Strategist):
%s

4. BENCHMARK DATA (Benchmark Specialist):
%s

5. GROWTH ASSESSMENT (Growth Architect):
%s

6. ANALYST AD-HOC NOTES:
%s

TASK:
Synthesize a final investment memo and return ONLY valid JSON.
You MUST follow these specific scoring and decision guidelines:

DECISION GUIDELINES:
- PASS: Any critical red flags detected OR risk_score > 70 OR deal_score < 40 OR growth_score < 4
- WATCH: Some concerns but potential OR deal_score 40-65 OR growth_score 5-6
- INVEST: Strong opportunity, manageable risks, deal_score > 65 AND growth_score > 6

DEAL SCORE CALCULATION LOGIC (Internal Reasoning):
- Start with 50 base points
- Add up to +20 for strong growth score (>7)
- Add up to +15 for good benchmark score (>60)
- Add up to +15 for low risk score (<40)
- Subtract -10 for each HIGH severity red flag
- Subtract -25 for each CRITICAL red flag
- Add up to +10 for strong market validation
- Add up to +10 for exceptional team

RETURN THIS EXACT JSON STRUCTURE:
{
  "companyName": "string",
  "oneLiner": "string",
  "executiveSummary": "multiparagraph summary. Highlight the 'Why Invest' or 'Why Pass'. Mention key competitors from market research.",
  "sector": "string",
  "verdict": "Invest|Pass|Watch",
  "reasoning": "Detailed thesis combining Key Strengths, Key Concerns, and specific Follow-up Questions for the founders.",
  "scores": {
    "team": number (0-100),
    "product": number (0-100),
    "market": number (0-100),
    "traction": number (0-100),
    "overall": number (The calculated Deal Score)
  },
  "keyMetrics": [
    { "label": "string", "value": "string", "benchmarkComparison": "Above|Average|Below" }
  ],
  "risks": [
    { "severity": "High|Medium|Low", "category": "string", "description": "string" }
  ],
  "opportunities": ["Growth opportunity 1", "Growth opportunity 2"]
}

Rules:
- The 'reasoning' field should be comprehensive. Use bullet points (using •) for strengths and concerns.
- Be critical. If the risk is too high, the verdict must be 'Pass'.
- Ensure all scores are numbers.
- Return ONLY JSON.`,
		compactJSON(profile), compactJSON(risks), compactJSON(market),
		compactJSON(benchmark), compactJSON(growth), notes)

	memo := model.DefaultDeliverable()
	_, err := invokeInto(ctx, s.invoker, &llm.GenerateRequest{
		Model:             s.tiers.Pro,
		SystemInstruction: recommendationPersona,
		Prompt:            prompt,
	}, memo)
	if err != nil {
		logger.Errorw("Recommendation synthesis failed, using default memo", "run_id", runID, "error", err.Error())
		memo = model.DefaultDeliverable()
		memo.CompanyName = profile.CompanyInfo.Name
		memo.Sector = profile.CompanyInfo.Sector
	}

	memo.Normalize()
	logger.Infow("Recommendation complete", "run_id", runID, "verdict", memo.Verdict, "deal_score", memo.Scores.Overall)
	return memo
}
