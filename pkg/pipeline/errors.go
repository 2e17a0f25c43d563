package pipeline

import (
	"github.com/pkg/errors"
)

var (
	// ErrPipelineMustBeSet is returned when a stage is added to a nil pipeline.
	ErrPipelineMustBeSet = errors.New("pipeline must be set")
	// ErrInputMustBeSet is returned when a stage has no input to read from.
	ErrInputMustBeSet = errors.New("input must be set")
	// ErrSinkMustBeSet is returned by AddSink without a sink and by Run on a pipeline without one.
	ErrSinkMustBeSet = errors.New("sink must be set")
	// ErrSinkAlreadySet is returned when a second sink is added.
	ErrSinkAlreadySet = errors.New("pipeline already has a sink")
	// ErrInputAlreadyConsumed is returned when the input stage already feeds another stage.
	ErrInputAlreadyConsumed = errors.New("input already has a consumer")
	// ErrStageFnMustBeSet is returned by AddStage without a stage function.
	ErrStageFnMustBeSet = errors.New("stage function must be set")
	// ErrReaderStopped is returned by the root stage when its reader goroutine ended early.
	ErrReaderStopped = errors.New("reader stopped before the end of stream")
)
