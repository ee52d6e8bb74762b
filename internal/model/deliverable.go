package model

import "strings"

// Investment verdicts.
const (
	VerdictInvest = "Invest"
	VerdictPass   = "Pass"
	VerdictWatch  = "Watch"
)

// NormalizeVerdict maps free-form verdict text to one of the three
// canonical verdicts, defaulting to Watch.
func NormalizeVerdict(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "invest":
		return VerdictInvest
	case "pass":
		return VerdictPass
	default:
		return VerdictWatch
	}
}

// ClampScore bounds a score to [0, 100].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Scores holds the 0-100 category scores of the final memo. Overall is
// the deal score.
type Scores struct {
	Team     float64 `json:"team"`
	Product  float64 `json:"product"`
	Market   float64 `json:"market"`
	Traction float64 `json:"traction"`
	Overall  float64 `json:"overall"`
}

// Metric is one headline metric with its benchmark comparison.
type Metric struct {
	Label               string `json:"label"`
	Value               string `json:"value"`
	BenchmarkComparison string `json:"benchmarkComparison"`
}

// ReportSource is a cited web source from search grounding.
type ReportSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Deliverable is the final investment memo. Field names follow the
// consumer contract, hence the camelCase JSON keys.
type Deliverable struct {
	ID               string          `json:"id"`
	Timestamp        string          `json:"timestamp,omitempty"`
	Status           string          `json:"status,omitempty"`
	CompanyName      string          `json:"companyName"`
	OneLiner         string          `json:"oneLiner"`
	ExecutiveSummary string          `json:"executiveSummary"`
	Sector           string          `json:"sector"`
	Verdict          string          `json:"verdict"`
	Reasoning        string          `json:"reasoning"`
	Scores           Scores          `json:"scores"`
	KeyMetrics       []Metric        `json:"keyMetrics"`
	Risks            []Risk          `json:"risks"`
	Opportunities    []string        `json:"opportunities"`
	Sources          []ReportSource  `json:"sources"`
	MarketDetails    *MarketAnalysis `json:"market_details,omitempty"`
}

// DefaultDeliverable returns the fallback memo used when the final
// synthesis fails outright.
func DefaultDeliverable() *Deliverable {
	return &Deliverable{
		CompanyName:      "Unknown",
		OneLiner:         "Analysis incomplete",
		ExecutiveSummary: "The analysis could not be completed. Manual review required.",
		Sector:           "Unknown",
		Verdict:          VerdictWatch,
		Reasoning:        "Automated synthesis failed; defaulting to a neutral verdict.",
		Scores: Scores{
			Team: 50, Product: 50, Market: 50, Traction: 50, Overall: 50,
		},
		KeyMetrics:    []Metric{},
		Risks:         []Risk{},
		Opportunities: []string{},
		Sources:       []ReportSource{},
	}
}

// Normalize clamps all scores and canonicalizes the verdict.
func (d *Deliverable) Normalize() {
	d.Verdict = NormalizeVerdict(d.Verdict)
	d.Scores.Team = ClampScore(d.Scores.Team)
	d.Scores.Product = ClampScore(d.Scores.Product)
	d.Scores.Market = ClampScore(d.Scores.Market)
	d.Scores.Traction = ClampScore(d.Scores.Traction)
	d.Scores.Overall = ClampScore(d.Scores.Overall)
	if d.KeyMetrics == nil {
		d.KeyMetrics = []Metric{}
	}
	if d.Risks == nil {
		d.Risks = []Risk{}
	}
	if d.Opportunities == nil {
		d.Opportunities = []string{}
	}
	if d.Sources == nil {
		d.Sources = []ReportSource{}
	}
}
