// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"matchability/internal/common/config"
	"matchability/internal/common/logger"
	"matchability/internal/common/metrics"
)

// JobHandler completes or fails the job itself.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. Active jobs are tracked in
// the worker_jobs_active gauge.
func NewWorker(client zbc.Client, taskType string, cfg config.WorkerConfig, handler JobHandler, log logger.Logger) *Worker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(func(c worker.JobClient, job entities.Job) {
			active := metrics.WorkerJobsActive.WithLabelValues(taskType)
			active.Inc()
			defer active.Dec()
			handler.Handle(c, job)
		})

	step := builder.MaxJobsActive(maxJobsActive(cfg))
	if cfg.Timeout > 0 {
		step = step.Timeout(time.Duration(cfg.Timeout) * time.Millisecond)
	}
	jobWorker := step.Open()

	log.Info("worker started", map[string]interface{}{"maxJobsActive": maxJobsActive(cfg)})
	return &Worker{worker: jobWorker, logger: log, taskType: taskType}
}

// Stop closes the worker and waits for in-flight jobs.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

func maxJobsActive(cfg config.WorkerConfig) int {
	if cfg.MaxJobsActive <= 0 {
		return 5
	}
	return cfg.MaxJobsActive
}
