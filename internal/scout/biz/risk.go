package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/pkg/llm"
)

const riskPersona = "You are a forensic risk assessment specialist for venture capital. " +
	"Your task is to identify red flags, inconsistencies, and critical risks in startup documents. " +
	"You are skeptical, detail-oriented, and focus on evidence-based auditing."

var titleCaser = cases.Title(language.English)

// RiskStage audits the data room for red flags and inconsistencies.
type RiskStage struct {
	invoker   Invoker
	knowledge *Knowledge
	tiers     ModelTiers
}

// NewRiskStage creates the risk audit stage.
func NewRiskStage(invoker Invoker, knowledge *Knowledge, tiers ModelTiers) *RiskStage {
	return &RiskStage{invoker: invoker, knowledge: knowledge, tiers: tiers}
}

// Run performs the risk audit. Failures degrade to the default audit.
func (s *RiskStage) Run(ctx context.Context, runID string, profile *model.Profile) *model.RiskAudit {
	logger.Infow("Stage 3: risk audit", "run_id", runID)

	metricsContext := s.knowledge.Retrieve(ctx,
		"Find all mentions of revenue, MRR, ARR, growth rate, customer count across all documents", runID, 10)
	marketContext := s.knowledge.Retrieve(ctx,
		"What market size, TAM, SAM claims are made? What is the addressable market?", runID, 5)
	financialContext := s.knowledge.Retrieve(ctx,
		"What is the burn rate, runway, cash position, funding needs?", runID, 5)
	teamContext := s.knowledge.Retrieve(ctx,
		"Information about founders' experience, team composition, key roles filled", runID, 5)
	customerContext := s.knowledge.Retrieve(ctx,
		"Customer retention, churn rate, customer satisfaction, feedback", runID, 5)

	prompt := fmt.Sprintf(`You are a risk assessment specialist for venture capital.
Analyze these documents for RED FLAGS and return ONLY valid JSON.

EXTRACTED STRUCTURED DATA:
%s

METRICS ACROSS DOCUMENTS:
%s

MARKET SIZE CLAIMS:
%s

FINANCIAL HEALTH:
%s

TEAM INFORMATION:
%s

CUSTOMER INFORMATION:
%s

Detect these specific risks:
1. INCONSISTENT METRICS - Do numbers contradict across documents?
2. INFLATED MARKET SIZE - Is TAM unrealistic or too broad?
3. FINANCIAL DISTRESS - Burn rate too high? Running out of money soon?
4. TEAM RISKS - Missing critical roles? Lack of experience?
5. CUSTOMER/MARKET RISKS - High churn rate? Unclear product-market fit?
6. UNREALISTIC PROJECTIONS - Growth projections too aggressive?
7. EXECUTION RISKS - Product not launched yet but claiming traction?

Return this EXACT JSON structure:
{
  "red_flags": [
    {
      "type": "inconsistent_metrics|inflated_market_size|financial_distress|team_risks|customer_risks|unrealistic_projections|execution_risks",
      "severity": "LOW|MEDIUM|HIGH|CRITICAL",
      "title": "string (Short risk title)",
      "description": "string (Brief description)",
      "evidence": ["Evidence point 1", "Evidence point 2"],
      "impact": "Why this matters"
    }
  ],
  "risk_score": number_from_0_to_100,
  "overall_assessment": "Low Risk|Medium Risk|High Risk|Critical Risk"
}

Rules:
- Only flag risks with concrete evidence.
- Be specific.
- Return ONLY the JSON object.`,
		compactJSON(profile),
		metricsContext, marketContext, financialContext, teamContext, customerContext)

	audit := model.DefaultRiskAudit()
	_, err := invokeInto(ctx, s.invoker, &llm.GenerateRequest{
		Model:             s.tiers.Fast,
		SystemInstruction: riskPersona,
		Prompt:            prompt,
	}, audit)
	if err != nil {
		logger.Errorw("Risk audit failed, using default audit", "run_id", runID, "error", err.Error())
		return model.DefaultRiskAudit()
	}

	audit.Risks = normalizeRedFlags(audit.RedFlags)
	logger.Infow("Risk audit complete", "run_id", runID, "red_flags", len(audit.RedFlags), "risk_score", audit.RiskScore)
	return audit
}

// normalizeRedFlags maps raw red flags to the risk shape the final memo
// consumes, with severities and categories in title case.
func normalizeRedFlags(flags []model.RedFlag) []model.Risk {
	risks := make([]model.Risk, 0, len(flags))
	for _, flag := range flags {
		severity := flag.Severity
		if severity == "" {
			severity = model.SeverityMedium
		}
		category := flag.Type
		if category == "" {
			category = "General"
		}
		risks = append(risks, model.Risk{
			Severity:    titleCaser.String(strings.ToLower(severity)),
			Category:    titleCaser.String(strings.ReplaceAll(category, "_", " ")),
			Description: fmt.Sprintf("%s: %s", flag.Title, flag.Description),
		})
	}
	return risks
}
