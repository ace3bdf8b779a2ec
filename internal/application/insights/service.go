package insights

import (
	"context"
	"log"

	appreports "github.com/healtrack/healtrack-api/internal/application/reports"
	domai "github.com/healtrack/healtrack-api/internal/domain/ai"
)

// DefaultInsight is returned whenever no data or no model is available.
const DefaultInsight = "Keep up the great work tracking your health!"

// maxFindings limits how much analysis context goes into the prompt
const maxFindings = 2

// Service generates a short encouraging health tip from the user's most
// recent analysis. It never fails: any error degrades to DefaultInsight.
type Service struct {
	Reports *appreports.Service
	AI      domai.Client
}

func NewService(reports *appreports.Service, client domai.Client) *Service {
	return &Service{Reports: reports, AI: client}
}

// Generate returns an insight for the user. Total: every path yields a
// non-empty string.
func (s *Service) Generate(ctx context.Context, userID string) string {
	findings, err := s.Reports.LatestAnalyzedFindings(ctx, userID, maxFindings)
	if err != nil || findings == "" {
		if err != nil {
			log.Printf("insight findings lookup failed user=%s: %v", userID, err)
		}
		return DefaultInsight
	}

	insight, err := s.AI.GenerateInsight(ctx, findings)
	if err != nil || insight == "" {
		if err != nil {
			log.Printf("insight generation failed user=%s: %v", userID, err)
		}
		return DefaultInsight
	}
	return insight
}
