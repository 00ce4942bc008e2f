package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/flowcrm/pipeline-api/internal/service"
	"go.uber.org/zap"
)

const autosaveJobName = "autosave_export"

// AutosaveJob periodically writes a full export of the record store to
// disk. The interval comes from the autosave-interval preference; the
// job re-reads it after every run and reschedules itself when it
// changed.
type AutosaveJob struct {
	scheduler *Scheduler
	export    *service.ExportService
	settings  *service.SettingsService
	dir       string
	logger    *zap.Logger
	interval  int
}

// NewAutosaveJob creates a new AutosaveJob writing into dir.
func NewAutosaveJob(
	scheduler *Scheduler,
	export *service.ExportService,
	settings *service.SettingsService,
	dir string,
	logger *zap.Logger,
) *AutosaveJob {
	return &AutosaveJob{
		scheduler: scheduler,
		export:    export,
		settings:  settings,
		dir:       dir,
		logger:    logger,
	}
}

// Register schedules the job at the currently configured interval.
func (j *AutosaveJob) Register(ctx context.Context) error {
	j.interval = j.settings.AutosaveInterval(ctx)
	return j.scheduler.AddJob(autosaveJobName, j.cronExpr(), j.run)
}

func (j *AutosaveJob) cronExpr() string {
	return fmt.Sprintf("@every %ds", j.interval)
}

func (j *AutosaveJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path, err := j.export.WriteFile(ctx, j.dir)
	if err != nil {
		j.logger.Error("Autosave export failed", zap.Error(err))
		return
	}
	j.logger.Debug("Autosave export complete", zap.String("path", path))

	// Pick up interval changes made through settings
	if interval := j.settings.AutosaveInterval(ctx); interval != j.interval && interval > 0 {
		j.interval = interval
		if err := j.scheduler.RemoveJob(autosaveJobName); err != nil {
			j.logger.Warn("Failed to reschedule autosave", zap.Error(err))
			return
		}
		if err := j.scheduler.AddJob(autosaveJobName, j.cronExpr(), j.run); err != nil {
			j.logger.Error("Failed to reschedule autosave", zap.Error(err))
		}
	}
}
