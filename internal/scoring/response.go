package scoring

import (
	"time"

	apperrors "matchability/internal/common/errors"
	"matchability/internal/models"
)

// TimestampLayout renders timestamps as "2019-06-01 10:00:00.000000".
const TimestampLayout = "2006-01-02 15:04:05.000000"

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Response is the scoring contract shared by every surface. Successful
// responses carry output and value; failures carry code and message.
type Response struct {
	Status    string   `json:"status"`
	Output    string   `json:"output,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Code      string   `json:"code,omitempty"`
	Message   string   `json:"message,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// Success renders a prediction. Output is "True" when the opportunity is
// predicted to be matched.
func Success(p *models.Prediction, now time.Time) Response {
	value := p.Probability
	output := "False"
	if p.Decision {
		output = "True"
	}
	return Response{
		Status:    StatusOK,
		Output:    output,
		Value:     &value,
		Timestamp: now.UTC().Format(TimestampLayout),
	}
}

// Failure renders err without leaking its details. Unknown errors become
// INTERNAL_ERROR.
func Failure(err error, now time.Time) Response {
	std := apperrors.AsStandard(err)
	return Response{
		Status:    StatusError,
		Code:      string(std.Code),
		Message:   std.Message,
		Timestamp: now.UTC().Format(TimestampLayout),
	}
}

func (r Response) OK() bool {
	return r.Status == StatusOK
}
