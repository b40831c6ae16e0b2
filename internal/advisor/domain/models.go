package domain

import (
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Source records which path produced a recommendation. It does not
// change the shape of the result: remote and local intent paths fill the
// same fields so downstream rendering is identical.
type Source string

const (
	SourceUsage  Source = "usage"
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

type Benefit struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type Alternative struct {
	Mode   modedomain.Mode `json:"mode"`
	Reason string          `json:"reason"`
}

// Recommendation is transient decision support shown to the actor before
// they confirm a mode transition. It is computed on demand and never
// persisted.
type Recommendation struct {
	Mode             modedomain.Mode `json:"mode"`
	Confidence       int             `json:"confidence"`
	Reasoning        []string        `json:"reasoning"`
	Benefits         []Benefit       `json:"benefits"`
	EstimatedSavings string          `json:"estimated_savings"`
	RiskLevel        RiskLevel       `json:"risk_level"`
	HowItWorks       string          `json:"how_it_works"`
	NextSteps        []string        `json:"next_steps"`
	Alternatives     []Alternative   `json:"alternatives"`
	ProductGroup     string          `json:"product_group"`
	Source           Source          `json:"source"`
}

// UsageSignals are the passive metrics the usage-based rule table reads.
type UsageSignals struct {
	CurrentMode    modedomain.Mode `json:"current_mode"`
	PurchaseCount  int             `json:"purchase_count"`
	MonthlySpend   float64         `json:"monthly_spend"`
	LoginFrequency string          `json:"login_frequency"`
}

// IntentRequest is a free-text statement of desired change.
type IntentRequest struct {
	Text           string `json:"text"`
	TargetAudience string `json:"target_audience,omitempty"`
	Lang           string `json:"lang,omitempty"`
}

// RecommendModelRequest is the wire request to the LLM orchestrator.
type RecommendModelRequest struct {
	BusinessDescription string `json:"business_description"`
	TargetAudience      string `json:"target_audience,omitempty"`
	Lang                string `json:"lang"`
}

// RecommendModelResponse is the orchestrator's structured response.
type RecommendModelResponse struct {
	Greeting            string             `json:"greeting"`
	RecommendationIntro string             `json:"recommendation_intro"`
	RecommendedModel    string             `json:"recommended_model"`
	WhyThisFits         string             `json:"why_this_fits"`
	HowItWorks          string             `json:"how_it_works"`
	NextSteps           []string           `json:"next_steps"`
	AlternativesIntro   string             `json:"alternatives_intro,omitempty"`
	Alternatives        []AlternativeModel `json:"alternatives,omitempty"`
	Closing             string             `json:"closing,omitempty"`
}

type AlternativeModel struct {
	Model       string `json:"model"`
	BriefReason string `json:"brief_reason"`
}
