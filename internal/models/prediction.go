// internal/models/prediction.go
package models

import "time"

// Source names the surface a prediction was requested through.
type Source string

const (
	SourceHTTP   Source = "http"
	SourceWorker Source = "worker"
	SourceCLI    Source = "cli"
	SourceStored Source = "stored"
)

// Prediction is one scored opportunity as stored in the history table,
// cached, and indexed for audit.
type Prediction struct {
	ID            string             `json:"id"`
	OpportunityID string             `json:"opportunityId,omitempty"`
	ModelVersion  string             `json:"modelVersion"`
	Probability   float64            `json:"probability"`
	Decision      bool               `json:"decision"`
	Source        Source             `json:"source"`
	Fingerprint   string             `json:"fingerprint,omitempty"`
	Features      map[string]float64 `json:"features,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}
