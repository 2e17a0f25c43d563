package logging

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

type pipelineLogger struct {
	logger *zap.Logger
	start  time.Time
}

// PipelineLogger returns a pipeline option logging the stage lifecycle.
// Per line hooks log nothing so they stay off the hot path.
func PipelineLogger(logger *zap.Logger) model.PipelineOption {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &pipelineLogger{logger: logger}
}

var _ model.RunBinder = (*pipelineLogger)(nil)

// BindRun tags every following log line with the run ID.
func (pl *pipelineLogger) BindRun(id uuid.UUID) {
	pl.logger = pl.logger.With(zap.Stringer("run_id", id))
}

func (pl *pipelineLogger) New() error {
	pl.start = time.Now()
	pl.logger.Debug("pipeline created")

	return nil
}

func (pl *pipelineLogger) PrepareStage(parentStage, stage *model.StageInfo) error {
	pl.logger.Debug("stage added",
		zap.String("stage", stage.Name),
		zap.String("type", string(stage.Type)),
		zap.String("input", parentStage.Name),
		zap.Int("capacity", stage.Capacity),
	)

	return nil
}

func (pl *pipelineLogger) PrepareSink(parentStage, sink *model.StageInfo) error {
	pl.logger.Debug("sink added",
		zap.String("stage", sink.Name),
		zap.String("input", parentStage.Name),
	)

	return nil
}

func (*pipelineLogger) OnStageOutput(_, _ *model.StageInfo, _, _ time.Duration) error {
	return nil
}

func (*pipelineLogger) OnSinkOutput(_, _ *model.StageInfo, _, _ time.Duration) error {
	return nil
}

func (pl *pipelineLogger) AfterStage(stage *model.StageInfo, total int64, totalDuration time.Duration) error {
	pl.logger.Info("stage finished",
		zap.String("stage", stage.Name),
		zap.Int64("lines", total),
		zap.Duration("elapsed", totalDuration),
	)

	return nil
}

func (pl *pipelineLogger) Finish() error {
	pl.logger.Info("pipeline finished", zap.Duration("elapsed", time.Since(pl.start)))

	return nil
}
