package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// Sink consumes the lines reaching the end of the pipeline.
type Sink interface {
	// Consume handles a single line. The sink owns line.
	Consume(ctx context.Context, line model.Line) error
	// Close runs once the sentinel has been received.
	Close() error
}

func runSink(ctx context.Context, pipe *Pipeline, input, stage *model.Stage, sink Sink) error {
	var total int64

	for {
		startInput := time.Now()

		item, err := input.Output.Get()
		if err != nil {
			return errors.Wrap(err, "unable to get line")
		}

		endInput := time.Since(startInput)

		if item.IsSentinel() {
			break
		}

		startFn := time.Now()

		err = sink.Consume(ctx, item.Line)
		if err != nil {
			return errors.Wrapf(err, "line %d", total+1)
		}

		endFn := time.Since(startFn)
		total++

		for _, opt := range pipe.opts {
			err := opt.OnSinkOutput(input.Details, stage.Details, endInput, endFn)
			if err != nil {
				return errors.Wrap(err, "unable to run sink output hook")
			}
		}
	}

	err := sink.Close()
	if err != nil {
		return errors.Wrap(err, "unable to close sink")
	}

	for _, opt := range pipe.opts {
		err := opt.AfterStage(stage.Details, total, time.Since(pipe.startTime))
		if err != nil {
			return errors.Wrap(err, "unable to run after stage hook")
		}
	}

	return nil
}

// AddSink adds the last stage of the pipeline. Every line read from input is handed to sink,
// and sink is closed when the sentinel arrives. A pipeline has exactly one sink.
func AddSink(pipe *Pipeline, name string, input *model.Stage, sink Sink) error {
	if pipe == nil {
		return ErrPipelineMustBeSet
	}

	if sink == nil {
		return ErrSinkMustBeSet
	}

	pipe.mu.Lock()
	hasSink := pipe.hasSink
	pipe.mu.Unlock()

	if hasSink {
		return ErrSinkAlreadySet
	}

	err := checkInput(pipe, input)
	if err != nil {
		return err
	}

	stage := &model.Stage{
		Details: &model.StageInfo{
			Type: model.SinkStageType,
			Name: name,
		},
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareSink(input.Details, stage.Details)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare sink hook")
		}
	}

	pipe.mu.Lock()
	pipe.hasSink = true
	pipe.mu.Unlock()

	pipe.addGoFn(name, func(ctx context.Context) error {
		return runSink(ctx, pipe, input, stage, sink)
	})

	return nil
}
