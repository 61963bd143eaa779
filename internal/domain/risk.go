package domain

type RiskCategory string

const (
	RiskCategoryConcentration   RiskCategory = "concentration"
	RiskCategoryLiquidity       RiskCategory = "liquidity"
	RiskCategoryMarketCap       RiskCategory = "market_cap"
	RiskCategoryDiversification RiskCategory = "diversification"
	RiskCategoryWalletAge       RiskCategory = "wallet_age"
)

// WarningPoints is the minimum factor score at which a factor is surfaced as a
// user-visible warning.
const WarningPoints = 10

type RiskFactor struct {
	Category    RiskCategory `json:"category"`
	Points      int          `json:"points"`
	Description string       `json:"description"`
}

type RiskAnalysis struct {
	TotalScore int          `json:"totalScore"`
	RiskLevel  string       `json:"riskLevel"`
	Factors    []RiskFactor `json:"factors"`
	Warnings   []string     `json:"warnings"`
}

// AnalysisResult is the final output of the analysis pipeline. RiskScore is
// always the deterministically computed score, never the model's opinion.
type AnalysisResult struct {
	Summary         string   `json:"summary"`
	RiskScore       int      `json:"riskScore"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// ClampScore bounds a risk score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RiskLevelForScore maps a total score to its tier label.
func RiskLevelForScore(score int) string {
	switch {
	case score <= 20:
		return "Very Safe"
	case score <= 40:
		return "Low Risk"
	case score <= 60:
		return "Moderate"
	case score <= 80:
		return "High Risk"
	default:
		return "Critical"
	}
}
