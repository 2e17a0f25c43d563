package model

import (
	"time"

	"github.com/google/uuid"
)

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStageOption
	pipelineSinkOption

	// AfterStage runs once a stage, sink included, has handled the sentinel.
	AfterStage(stage *StageInfo, total int64, totalDuration time.Duration) error

	// Finish runs after the pipeline is finished.
	Finish() error
}

// pipelineStageOption defines the interface for root and normal stage options at the pipeline level.
type pipelineStageOption interface {
	// PrepareStage runs when the stage is added to the pipeline.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageOutput runs everytime a line is pushed to the output of the stage.
	OnStageOutput(parentStage, stage *StageInfo, waitDuration, computationDuration time.Duration) error
}

// pipelineSinkOption defines the interface for sink options at the pipeline level.
type pipelineSinkOption interface {
	// PrepareSink runs when the sink is added to the pipeline.
	PrepareSink(parentStage, sink *StageInfo) error
	// OnSinkOutput runs everytime the sink has consumed a line.
	OnSinkOutput(parentStage, sink *StageInfo, waitDuration, computationDuration time.Duration) error
}

// RunBinder is implemented by pipeline options needing the run ID of the pipeline.
// BindRun is called before New.
type RunBinder interface {
	BindRun(id uuid.UUID)
}
