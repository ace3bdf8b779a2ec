package ai

import "errors"

// ErrAnalysisUnavailable collapses every analyzer failure mode (missing API
// key, transport error, non-200 response, unparsable JSON) into one condition.
// Callers apply their fallback policy instead of surfacing it.
var ErrAnalysisUnavailable = errors.New("ai analysis unavailable")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")
