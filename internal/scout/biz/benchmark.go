package biz

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/pkg/llm"
)

const benchmarkPersona = "You are an expert Venture Capital Benchmarking Analyst. Your task is to compare a startup's " +
	"performance metrics against current industry standards and peer benchmarks found via Google Search."

// BenchmarkStage compares the startup against live sector benchmarks.
type BenchmarkStage struct {
	invoker   Invoker
	knowledge *Knowledge
	tiers     ModelTiers
}

// NewBenchmarkStage creates the benchmarking stage.
func NewBenchmarkStage(invoker Invoker, knowledge *Knowledge, tiers ModelTiers) *BenchmarkStage {
	return &BenchmarkStage{invoker: invoker, knowledge: knowledge, tiers: tiers}
}

// Run benchmarks the startup. Failures degrade to the default report.
func (s *BenchmarkStage) Run(ctx context.Context, runID string, profile *model.Profile) *model.BenchmarkReport {
	sector := profile.CompanyInfo.Sector
	stage := profile.CompanyInfo.Stage
	logger.Infow("Stage 4: benchmarking", "run_id", runID, "sector", sector, "stage", stage)

	metricsContext := s.knowledge.Retrieve(ctx,
		"What are all the metrics: revenue, MRR, growth rate, team size, customers?", runID, 5)

	prompt := fmt.Sprintf(`You are a venture capital benchmarking analyst.

USE GOOGLE SEARCH to find current, live benchmarks for the following:
- %[1]s %[2]s stage average metrics
- %[1]s startup valuation multiples
- %[1]s startup growth rates benchmarks
- %[1]s %[2]s stage revenue benchmarks

STARTUP INFORMATION:
Company: %[3]s
Sector: %[1]s
Stage: %[2]s

STARTUP METRICS:
%[4]s

Team Size: %[5]s
Customers: %[6]s

METRICS CONTEXT FROM DOCUMENTS:
%[7]s

Compare this startup against sector benchmarks found via Google Search and return ONLY valid JSON:

{
  "sector_benchmarks": {
    "sector": "%[1]s",
    "stage": "%[2]s",
    "avg_revenue_seed": "typical stage revenue or Unknown",
    "avg_growth_rate": "typical monthly growth %% or Unknown",
    "avg_team_size": "typical team size or Unknown",
    "avg_valuation_multiple": "typical revenue multiple or Unknown"
  },
  "comparisons": {
    "revenue": {
      "startup_value": "their revenue or Unknown",
      "sector_average": "sector avg or Unknown",
      "percentile": number_0_to_100_or_null,
      "status": "Above Average|Average|Below Average|Unknown",
      "notes": "Brief explanation"
    },
    "growth_rate": {
      "startup_value": "their growth rate or Unknown",
      "sector_average": "sector avg or Unknown",
      "percentile": number_0_to_100_or_null,
      "status": "Above Average|Average|Below Average|Unknown",
      "notes": "Brief explanation"
    },
    "team_size": {
      "startup_value": "their team size or Unknown",
      "sector_average": "sector avg or Unknown",
      "status": "Appropriate|Too Large|Too Small|Unknown",
      "notes": "Brief explanation"
    },
    "customer_count": {
      "startup_value": "their customers or Unknown",
      "sector_average": "sector avg or Unknown",
      "percentile": number_0_to_100_or_null,
      "status": "Above Average|Average|Below Average|Unknown",
      "notes": "Brief explanation"
    },
    "revenue_per_employee": {
      "startup_value": "calculated value or Unknown",
      "sector_average": "sector avg or Unknown",
      "status": "Efficient|Average|Inefficient|Unknown",
      "notes": "Brief explanation"
    }
  },
  "competitive_position": {
    "overall_ranking": "Top 25%%|Top 50%%|Bottom 50%%|Bottom 25%%|Unknown",
    "key_advantages": ["Advantage 1", "Advantage 2"],
    "key_gaps": ["Gap 1", "Gap 2"],
    "catch_up_difficulty": "Easy|Moderate|Difficult|Very Difficult"
  },
  "benchmark_score": number_from_0_to_100,
  "summary": "2-3 sentence summary of how they compare"
}

Guidelines:
- If data is missing, use "Unknown" and null
- Be realistic with percentiles based on actual search results
- Focus on metrics relevant to their sector
- You MUST list the URLs of the sources you find in your internal reasoning.`,
		sector, stage, profile.CompanyInfo.Name,
		compactJSON(profile.Metrics),
		stringOrUnknown(profile.Team.TotalEmployees),
		stringOrUnknown(profile.Metrics.Customers),
		metricsContext)

	report := model.DefaultBenchmarkReport()
	result, err := invokeInto(ctx, s.invoker, &llm.GenerateRequest{
		Model:             s.tiers.Pro,
		SystemInstruction: benchmarkPersona,
		Prompt:            prompt,
		EnableSearch:      true,
	}, report)
	if err != nil {
		logger.Errorw("Benchmarking failed, using default report", "run_id", runID, "error", err.Error())
		return model.DefaultBenchmarkReport()
	}

	report.Metrics = flattenComparisons(report.Comparisons)
	report.Sources = groundingSources(result.Grounding)

	logger.Infow("Benchmarking complete", "run_id", runID, "benchmark_score", report.BenchmarkScore, "sources", len(report.Sources))
	return report
}

// flattenComparisons turns the comparison map into display metrics,
// sorted by label so the output order is stable.
func flattenComparisons(comparisons map[string]model.MetricComparison) []model.Metric {
	metrics := make([]model.Metric, 0, len(comparisons))
	for key, comp := range comparisons {
		value := comp.StartupValue
		if value == "" {
			value = "N/A"
		}
		status := comp.Status
		if status == "" {
			status = "Average"
		}
		metrics = append(metrics, model.Metric{
			Label:               titleCaser.String(strings.ReplaceAll(key, "_", " ")),
			Value:               value,
			BenchmarkComparison: status,
		})
	}
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Label < metrics[j].Label
	})
	return metrics
}

// groundingSources converts search grounding into report citations.
func groundingSources(g *llm.Grounding) []model.ReportSource {
	if g == nil {
		return []model.ReportSource{}
	}
	sources := make([]model.ReportSource, 0, len(g.Sources))
	for _, s := range g.Sources {
		sources = append(sources, model.ReportSource{Title: s.Title, URI: s.URL})
	}
	return sources
}
