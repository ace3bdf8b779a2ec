package analysis

import (
	"time"
)

// RiskLevel enum
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Flag enum for lab result values
type Flag string

const (
	FlagNormal   Flag = "normal"
	FlagHigh     Flag = "high"
	FlagLow      Flag = "low"
	FlagCritical Flag = "critical"
)

// Source marks whether a result came from the live model or the canned payload
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// KeyFinding value object
type KeyFinding struct {
	Finding string    `json:"finding"`
	Value   string    `json:"value"`
	Target  string    `json:"target"`
	Risk    RiskLevel `json:"risk"`
}

// LabResult value object
type LabResult struct {
	Test     string `json:"test"`
	Value    string `json:"value"`
	Unit     string `json:"unit"`
	RefRange string `json:"refRange"`
	Flag     Flag   `json:"flag"`
}

// Result is the structured outcome of one document analysis.
// Every Result that leaves this package satisfies the invariants enforced
// by Sanitize: valid enum values, capped strings, and at least one
// recommendation mentioning a healthcare provider.
type Result struct {
	Summary         string       `json:"summary"`
	KeyFindings     []KeyFinding `json:"keyFindings"`
	LabResults      []LabResult  `json:"labResults"`
	Recommendations []string     `json:"recommendations"`
	RiskLevel       RiskLevel    `json:"riskLevel"`
	FollowUpNeeded  bool         `json:"followUpNeeded"`
	AnalyzedAt      time.Time    `json:"analyzedAt"`
	Source          Source       `json:"source"`
}
