package model

// Profile is the structured fact sheet extracted from the data room.
// Numeric fields use pointers so absent values stay null in prompts and
// responses instead of collapsing to zero.
type Profile struct {
	CompanyInfo CompanyInfo `json:"company_info"`
	Business    Business    `json:"business"`
	Metrics     Metrics     `json:"metrics"`
	Team        Team        `json:"team"`
	Funding     Funding     `json:"funding"`
	Traction    Traction    `json:"traction"`
}

// CompanyInfo identifies the company.
type CompanyInfo struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Stage       string `json:"stage"`
	FoundedYear *int   `json:"founded_year"`
	Location    string `json:"location"`
}

// Business describes the problem, solution and market claims.
type Business struct {
	Problem         string `json:"problem"`
	Solution        string `json:"solution"`
	TargetMarket    string `json:"target_market"`
	BusinessModel   string `json:"business_model"`
	UniqueValueProp string `json:"unique_value_prop"`
	MarketSizeTAM   string `json:"market_size_tam"`
}

// Metrics holds the financial and traction numbers.
type Metrics struct {
	MRR               *float64 `json:"mrr"`
	ARR               *float64 `json:"arr"`
	Revenue           *float64 `json:"revenue"`
	GrowthRateMonthly *string  `json:"growth_rate_monthly"`
	Customers         *float64 `json:"customers"`
	BurnRateMonthly   *float64 `json:"burn_rate_monthly"`
	RunwayMonths      *float64 `json:"runway_months"`
	ChurnRate         *string  `json:"churn_rate"`
}

// Team describes the founding team.
type Team struct {
	Founders       []string `json:"founders"`
	TotalEmployees *float64 `json:"total_employees"`
	KeyHires       []string `json:"key_hires"`
}

// Funding describes the funding history.
type Funding struct {
	TotalRaised     *float64 `json:"total_raised"`
	LastRound       *string  `json:"last_round"`
	LastRoundAmount *float64 `json:"last_round_amount"`
	Investors       []string `json:"investors"`
}

// Traction describes product status and external validation.
type Traction struct {
	ProductStatus    string   `json:"product_status"`
	CustomerExamples []string `json:"customer_examples"`
	Partnerships     []string `json:"partnerships"`
	Awards           []string `json:"awards"`
}

// DefaultProfile returns the fallback profile used when extraction fails.
func DefaultProfile() *Profile {
	return &Profile{
		CompanyInfo: CompanyInfo{
			Name:     "Unknown",
			Sector:   "Unknown",
			Stage:    "Unknown",
			Location: "Unknown",
		},
		Business: Business{
			Problem:         "Not stated",
			Solution:        "Not stated",
			TargetMarket:    "Not stated",
			BusinessModel:   "Not stated",
			UniqueValueProp: "Not stated",
			MarketSizeTAM:   "Not stated",
		},
		Team: Team{
			Founders: []string{},
			KeyHires: []string{},
		},
		Funding: Funding{
			Investors: []string{},
		},
		Traction: Traction{
			ProductStatus:    "Unknown",
			CustomerExamples: []string{},
			Partnerships:     []string{},
			Awards:           []string{},
		},
	}
}

// MarketAnalysis is the market research verdict, including the live
// competitive landscape.
type MarketAnalysis struct {
	MarketInsights   MarketInsights   `json:"market_insights"`
	Competition      Competition      `json:"competition"`
	Validation       MarketValidation `json:"validation"`
	CredibilityScore float64          `json:"credibility_score"`
	Summary          string           `json:"summary"`
}

// MarketInsights summarizes size and momentum.
type MarketInsights struct {
	MarketSizeEstimate string   `json:"market_size_estimate"`
	GrowthRate         string   `json:"growth_rate"`
	KeyTrends          []string `json:"key_trends"`
	MarketMaturity     string   `json:"market_maturity"`
}

// Competition describes the competitive landscape.
type Competition struct {
	CompetitiveIntensity     string       `json:"competitive_intensity"`
	Competitors              []Competitor `json:"competitors"`
	DifferentiationPotential string       `json:"differentiation_potential"`
}

// Competitor is one analyzed peer.
type Competitor struct {
	Name            string   `json:"name"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MarketGap       string   `json:"market_gap"`
	EstimatedGrowth string   `json:"estimated_growth"`
}

// MarketValidation holds the problem/solution/timing assessment.
type MarketValidation struct {
	ProblemValidation string `json:"problem_validation"`
	SolutionFit       string `json:"solution_fit"`
	Timing            string `json:"timing"`
}

// DefaultMarketAnalysis returns the fallback when market research fails.
func DefaultMarketAnalysis() *MarketAnalysis {
	return &MarketAnalysis{
		MarketInsights: MarketInsights{
			MarketSizeEstimate: "Unknown",
			GrowthRate:         "Unknown",
			KeyTrends:          []string{},
			MarketMaturity:     "Unknown",
		},
		Competition: Competition{
			CompetitiveIntensity:     "Unknown",
			Competitors:              []Competitor{},
			DifferentiationPotential: "Moderate",
		},
		Validation: MarketValidation{
			ProblemValidation: "Unable to validate",
			SolutionFit:       "Unable to assess",
			Timing:            "Unable to assess",
		},
		CredibilityScore: 50,
		Summary:          "Insufficient data for market research",
	}
}

// Red flag severities as emitted by the risk audit.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// RedFlag is one evidence-backed risk finding.
type RedFlag struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
	Impact      string   `json:"impact"`
}

// RiskAudit is the forensic risk assessment. Risks is derived from
// RedFlags after decoding and is the shape the final memo consumes.
type RiskAudit struct {
	RedFlags          []RedFlag `json:"red_flags"`
	RiskScore         float64   `json:"risk_score"`
	OverallAssessment string    `json:"overall_assessment"`
	Risks             []Risk    `json:"risks"`
}

// Risk is a normalized risk entry for the deliverable.
type Risk struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// DefaultRiskAudit returns the fallback when risk detection fails.
func DefaultRiskAudit() *RiskAudit {
	return &RiskAudit{
		RedFlags:          []RedFlag{},
		RiskScore:         50,
		OverallAssessment: "Unable to assess - analysis error",
		Risks:             []Risk{},
	}
}

// BenchmarkReport compares the startup against sector peers.
type BenchmarkReport struct {
	SectorBenchmarks    SectorBenchmarks            `json:"sector_benchmarks"`
	Comparisons         map[string]MetricComparison `json:"comparisons"`
	CompetitivePosition CompetitivePosition         `json:"competitive_position"`
	BenchmarkScore      float64                     `json:"benchmark_score"`
	Summary             string                      `json:"summary"`

	// Metrics is the flattened view of Comparisons and Sources carries
	// search grounding; both are filled after decoding.
	Metrics []Metric       `json:"metrics"`
	Sources []ReportSource `json:"sources"`
}

// SectorBenchmarks holds typical sector/stage values.
type SectorBenchmarks struct {
	Sector               string `json:"sector"`
	Stage                string `json:"stage"`
	AvgRevenueSeed       string `json:"avg_revenue_seed"`
	AvgGrowthRate        string `json:"avg_growth_rate"`
	AvgTeamSize          string `json:"avg_team_size"`
	AvgValuationMultiple string `json:"avg_valuation_multiple"`
}

// MetricComparison compares one startup metric against the sector.
type MetricComparison struct {
	StartupValue  string   `json:"startup_value"`
	SectorAverage string   `json:"sector_average"`
	Percentile    *float64 `json:"percentile,omitempty"`
	Status        string   `json:"status"`
	Notes         string   `json:"notes"`
}

// CompetitivePosition ranks the startup against its peer group.
type CompetitivePosition struct {
	OverallRanking    string   `json:"overall_ranking"`
	KeyAdvantages     []string `json:"key_advantages"`
	KeyGaps           []string `json:"key_gaps"`
	CatchUpDifficulty string   `json:"catch_up_difficulty"`
}

// DefaultBenchmarkReport returns the fallback when benchmarking fails.
func DefaultBenchmarkReport() *BenchmarkReport {
	return &BenchmarkReport{
		SectorBenchmarks: SectorBenchmarks{
			Sector:               "Unknown",
			Stage:                "Unknown",
			AvgRevenueSeed:       "Unknown",
			AvgGrowthRate:        "Unknown",
			AvgTeamSize:          "Unknown",
			AvgValuationMultiple: "Unknown",
		},
		Comparisons: map[string]MetricComparison{},
		CompetitivePosition: CompetitivePosition{
			OverallRanking:    "Unknown",
			KeyAdvantages:     []string{},
			KeyGaps:           []string{},
			CatchUpDifficulty: "Unknown",
		},
		BenchmarkScore: 50,
		Summary:        "Insufficient data for benchmarking",
		Metrics:        []Metric{},
		Sources:        []ReportSource{},
	}
}

// GrowthAssessment scores long-term potential across five dimensions.
type GrowthAssessment struct {
	GrowthScores          GrowthScores      `json:"growth_scores"`
	OverallGrowthScore    float64           `json:"overall_growth_score"`
	GrowthTrajectory      string            `json:"growth_trajectory"`
	TimeToScale           string            `json:"time_to_scale"`
	ExitPotential         ExitPotential     `json:"exit_potential"`
	GrowthPlanQuality     GrowthPlanQuality `json:"growth_plan_quality"`
	RecommendationSummary string            `json:"recommendation_summary"`
}

// GrowthScores holds the five scored dimensions.
type GrowthScores struct {
	MarketOpportunity GrowthDimension `json:"market_opportunity"`
	CompetitiveMoat   GrowthDimension `json:"competitive_moat"`
	ProductInnovation GrowthDimension `json:"product_innovation"`
	Scalability       GrowthDimension `json:"scalability"`
	TeamExecution     GrowthDimension `json:"team_execution"`
}

// GrowthDimension is one scored growth dimension. The qualifier fields
// apply only to some dimensions and stay empty elsewhere.
type GrowthDimension struct {
	Score           float64  `json:"score"`
	Reasoning       string   `json:"reasoning"`
	Evidence        []string `json:"evidence"`
	MoatType        string   `json:"moat_type,omitempty"`
	InnovationLevel string   `json:"innovation_level,omitempty"`
	Bottlenecks     []string `json:"bottlenecks,omitempty"`
	KeyStrengths    []string `json:"key_strengths,omitempty"`
	KeyGaps         []string `json:"key_gaps,omitempty"`
}

// ExitPotential estimates the likely exit path.
type ExitPotential struct {
	LikelyOutcome        string   `json:"likely_outcome"`
	EstimatedTimeline    string   `json:"estimated_timeline"`
	PotentialAcquirers   []string `json:"potential_acquirers"`
	ExitMultipleEstimate string   `json:"exit_multiple_estimate"`
}

// GrowthPlanQuality rates the stated growth strategy.
type GrowthPlanQuality struct {
	Score            float64  `json:"score"`
	HasClearStrategy bool     `json:"has_clear_strategy"`
	KeyMilestones    []string `json:"key_milestones"`
	RisksToPlan      []string `json:"risks_to_plan"`
}

// DefaultGrowthAssessment returns the fallback when growth assessment fails.
func DefaultGrowthAssessment() *GrowthAssessment {
	neutral := func() GrowthDimension {
		return GrowthDimension{Score: 5, Reasoning: "Unable to assess", Evidence: []string{}}
	}
	moat := neutral()
	moat.MoatType = "None"
	innovation := neutral()
	innovation.InnovationLevel = "Incremental"
	scalability := neutral()
	scalability.Bottlenecks = []string{}
	execution := neutral()
	execution.KeyStrengths = []string{}
	execution.KeyGaps = []string{}

	return &GrowthAssessment{
		GrowthScores: GrowthScores{
			MarketOpportunity: neutral(),
			CompetitiveMoat:   moat,
			ProductInnovation: innovation,
			Scalability:       scalability,
			TeamExecution:     execution,
		},
		OverallGrowthScore: 5,
		GrowthTrajectory:   "Unclear",
		TimeToScale:        "Unclear",
		ExitPotential: ExitPotential{
			LikelyOutcome:        "Other",
			EstimatedTimeline:    "Unknown",
			PotentialAcquirers:   []string{},
			ExitMultipleEstimate: "Unknown",
		},
		GrowthPlanQuality: GrowthPlanQuality{
			Score:         5,
			KeyMilestones: []string{},
			RisksToPlan:   []string{},
		},
		RecommendationSummary: "Insufficient data for growth assessment",
	}
}
