package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	userIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	reportIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
)

// ValidateMimeType checks the upload content type against the allowed set
func ValidateMimeType(mimeType string, allowed map[string]bool) error {
	if !allowed[strings.ToLower(strings.TrimSpace(mimeType))] {
		return fmt.Errorf("invalid file type: %s (allowed: pdf, jpeg, png, heic)", mimeType)
	}
	return nil
}

// ValidateUserID validates user ID format
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid user ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateReportID validates report ID format (UUID)
func ValidateReportID(reportID string) error {
	if reportID == "" {
		return fmt.Errorf("report ID cannot be empty")
	}
	if !reportIDPattern.MatchString(strings.ToLower(reportID)) {
		return fmt.Errorf("invalid report ID format")
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
