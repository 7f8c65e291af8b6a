package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// DefaultProposalNumberPrefix is used when no prefix is configured.
const DefaultProposalNumberPrefix = "PRP"

// formatProposalNumber constructs the proposal number string from components.
func formatProposalNumber(prefix string, now time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, now.Format("200601"), sequence)
}

// GenerateProposalNumber creates the next proposal number for the month.
// Format: {prefix}-{YYYYMM}-{sequence}
//   - sequence: 3-digit zero-padded, counted per prefix per month
//
// Numbers are a convenience for humans and are not guaranteed unique.
func GenerateProposalNumber(app core.App, prefix string, now time.Time) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultProposalNumberPrefix
	}
	monthPrefix := fmt.Sprintf("%s-%s-", prefix, now.Format("200601"))

	existing, err := app.FindRecordsByFilter(
		"proposals",
		"proposal_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": monthPrefix + "%"},
	)
	if err != nil {
		// If collection doesn't exist or no records, start at 1
		existing = nil
	}

	return formatProposalNumber(prefix, now, len(existing)+1)
}
