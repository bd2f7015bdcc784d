package model

type RiskCategory string

const (
	RiskCategoryLow    RiskCategory = "low"
	RiskCategoryMedium RiskCategory = "medium"
	RiskCategoryHigh   RiskCategory = "high"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// FeatureContribution - вклад признака в логит модели
type FeatureContribution struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	Category     string  `json:"category,omitempty"`
	Importance   float64 `json:"importance"`
	Contribution float64 `json:"contribution"`
	Impact       string  `json:"impact"` // increases_risk, decreases_risk, neutral
}

type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelRiskFactor - фактор риска, выделенный объяснением модели
type ModelRiskFactor struct {
	Factor   string   `json:"factor"`
	Detail   string   `json:"detail"`
	Severity Severity `json:"severity"`
}

// Explanation - объяснение прогноза дефолта
type Explanation struct {
	Summary              string                `json:"summary"`
	Reasoning            string                `json:"reasoning"`
	FeatureContributions []FeatureContribution `json:"feature_contributions"`
	TopFeatures          []FeatureImportance   `json:"top_features"`
	RiskFactors          []ModelRiskFactor     `json:"risk_factors"`
	Method               string                `json:"method"`
	Threshold            float64               `json:"threshold"`
}

type ModelInfo struct {
	ModelType string `json:"model_type"`
	Version   string `json:"version"`
}

// PredictionResult - результат прогноза вероятности дефолта
type PredictionResult struct {
	DefaultPrediction  bool         `json:"default_prediction"`
	DefaultProbability float64      `json:"default_probability"`
	RiskCategory       RiskCategory `json:"risk_category"`
	Confidence         Confidence   `json:"confidence"`
	Explanation        *Explanation `json:"explanation,omitempty"`
	ModelInfo          ModelInfo    `json:"model_info"`
}

// BatchPredictionItem - результат одной заявки в пакетном прогнозе
type BatchPredictionItem struct {
	Result *PredictionResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}
