// internal/workers/opportunity/score-opportunity/models.go
package scoreopportunity

import (
	"matchability/internal/features"
	"matchability/internal/scoring"
)

// Input carries either an inline opportunity or the id of a stored one.
// An inline opportunity wins when both are set.
type Input struct {
	Opportunity   features.Record `json:"opportunity,omitempty"`
	OpportunityID string          `json:"opportunityId,omitempty"`
}

type Output struct {
	Matchability scoring.Response `json:"matchability"`
}
