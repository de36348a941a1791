package server

import (
	"strings"

	"github.com/megomed/marketplace/internal/feedback"
)

func trimmed(value string) string {
	return strings.TrimSpace(value)
}

// workflowResult classifies a workflow call for the audit trail.
func workflowResult(outcome feedback.Outcome, err error) (string, string) {
	if err != nil {
		if msg, ok := feedback.MessageOf(err); ok {
			return "failed", msg
		}
		return "rejected", err.Error()
	}
	return string(outcome.Status), outcome.Message
}
