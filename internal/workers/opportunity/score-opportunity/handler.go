// internal/workers/opportunity/score-opportunity/handler.go
package scoreopportunity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"matchability/internal/common/errors"
	"matchability/internal/common/logger"
	"matchability/internal/common/metrics"
	"matchability/internal/features"
	"matchability/internal/models"
	"matchability/internal/scoring"
)

const (
	TaskType = "score-opportunity"
)

// Scorer is the part of scoring.Service the worker needs.
type Scorer interface {
	ScoreRecord(ctx context.Context, r features.Record, source models.Source) (*models.Prediction, error)
	ScoreStored(ctx context.Context, opportunityID string) (*models.Prediction, error)
	Success(p *models.Prediction) scoring.Response
}

type Handler struct {
	config       *Config
	scorer       Scorer
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, scorer Scorer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx = scoring.WithRequestID(ctx, jobRequestID(job))

	input, err := parseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// Execute runs the job logic without a Zeebe client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		p   *models.Prediction
		err error
	)
	switch {
	case input.Opportunity != nil:
		p, err = h.scorer.ScoreRecord(ctx, input.Opportunity, models.SourceWorker)
	case input.OpportunityID != "":
		p, err = h.scorer.ScoreStored(ctx, input.OpportunityID)
	default:
		return nil, errors.NewInvalidRequestError("opportunity or opportunityId is required")
	}
	if err != nil {
		return nil, err
	}
	return &Output{Matchability: h.scorer.Success(p)}, nil
}

func parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	std := errors.AsStandard(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(std.Code)).Inc()

	// the job context may already be spent; the failure report gets its own
	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	h.errorHandler.HandleJobError(reportCtx, client, job, std)
}

func jobRequestID(job entities.Job) string {
	b, _ := json.Marshal(job.Key)
	return "job-" + string(b)
}
