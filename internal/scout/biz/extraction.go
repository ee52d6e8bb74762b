package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/pkg/llm"
)

const extractionPersona = "You are a professional data extraction specialist for venture capital analysis. " +
	"Your goal is to extract factual data from documents with high precision. " +
	"Be conservative and do not hallucinate data."

// ExtractionStage builds the structured fact sheet that every later
// stage consumes. It never returns an error: any failure degrades to
// the default profile.
type ExtractionStage struct {
	invoker   Invoker
	knowledge *Knowledge
	tiers     ModelTiers
}

// NewExtractionStage creates the extraction stage.
func NewExtractionStage(invoker Invoker, knowledge *Knowledge, tiers ModelTiers) *ExtractionStage {
	return &ExtractionStage{invoker: invoker, knowledge: knowledge, tiers: tiers}
}

// Run extracts the structured profile via multiple targeted retrievals.
func (s *ExtractionStage) Run(ctx context.Context, runID string) *model.Profile {
	logger.Infow("Stage 1: extracting structured profile", "run_id", runID)

	companyContext := s.knowledge.Retrieve(ctx,
		"What is the company name, sector, industry, and location?", runID, 3)
	businessContext := s.knowledge.Retrieve(ctx,
		"What problem are they solving? What is their solution? Who are their target customers? What is their business model?", runID, 5)
	metricsContext := s.knowledge.Retrieve(ctx,
		"What are the financial metrics: revenue, MRR, ARR, growth rate, customers, burn rate, runway?", runID, 5)
	teamContext := s.knowledge.Retrieve(ctx,
		"Who are the founders? What is the team size? What is their experience?", runID, 3)
	marketContext := s.knowledge.Retrieve(ctx,
		"What is the market size? TAM, SAM, SOM? Market opportunity?", runID, 3)
	fundingContext := s.knowledge.Retrieve(ctx,
		"How much funding have they raised? From which investors? What round?", runID, 3)

	prompt := fmt.Sprintf(`Extract structured information from these startup documents and return ONLY valid JSON.

CONTEXT SECTIONS:

COMPANY INFORMATION:
%s

BUSINESS MODEL:
%s

FINANCIAL METRICS:
%s

TEAM:
%s

MARKET:
%s

FUNDING:
%s

Return this EXACT JSON structure:
{
  "company_info": {
    "name": "company name or Unknown",
    "sector": "SaaS/FinTech/HealthTech/E-commerce/AI/EdTech/etc or Unknown",
    "stage": "Pre-seed/Seed/Series A/Series B/etc or Unknown",
    "founded_year": number_or_null,
    "location": "City, Country or Unknown"
  },
  "business": {
    "problem": "brief problem description or Not stated",
    "solution": "brief solution description or Not stated",
    "target_market": "target customer description or Not stated",
    "business_model": "revenue model description or Not stated",
    "unique_value_prop": "what makes them unique or Not stated",
    "market_size_tam": "TAM value with currency or Not stated"
  },
  "metrics": {
    "mrr": number_or_null,
    "arr": number_or_null,
    "revenue": number_or_null,
    "growth_rate_monthly": "percentage_string_or_null",
    "customers": number_or_null,
    "burn_rate_monthly": number_or_null,
    "runway_months": number_or_null,
    "churn_rate": "percentage_string_or_null"
  },
  "team": {
    "founders": ["list of names"],
    "total_employees": number_or_null,
    "key_hires": ["list of key positions filled"]
  },
  "funding": {
    "total_raised": number_or_null,
    "last_round": "round_name_or_null",
    "last_round_amount": number_or_null,
    "investors": ["list of investors"]
  },
  "traction": {
    "product_status": "Idea/MVP/Beta/Live/Scaling or Unknown",
    "customer_examples": ["list of notable customers"],
    "partnerships": ["list of partnerships"],
    "awards": ["list of awards"]
  }
}

Rules:
- Use null for missing numbers.
- Use "Unknown" or "Not stated" for missing text.
- Extract exact values when available.
- Return ONLY the JSON object.`,
		companyContext, businessContext, metricsContext, teamContext, marketContext, fundingContext)

	profile := model.DefaultProfile()
	_, err := invokeInto(ctx, s.invoker, &llm.GenerateRequest{
		Model:             s.tiers.Fast,
		SystemInstruction: extractionPersona,
		Prompt:            prompt,
	}, profile)
	if err != nil {
		logger.Errorw("Extraction failed, using default profile", "run_id", runID, "error", err.Error())
		return model.DefaultProfile()
	}

	logger.Infow("Extraction complete", "run_id", runID, "company", profile.CompanyInfo.Name)
	return profile
}
