package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// StageFn transforms a line. The stage owns line and may modify it in place.
type StageFn func(ctx context.Context, line model.Line) (model.Line, error)

func runStage(ctx context.Context, pipe *Pipeline, input, output *model.Stage, stageFn StageFn) error {
	var total int64

	for {
		start := time.Now()

		item, err := input.Output.Get()
		if err != nil {
			return errors.Wrap(err, "unable to get line")
		}

		waitFn := time.Since(start)

		if item.IsSentinel() {
			break
		}

		startFn := time.Now()

		out, err := stageFn(ctx, item.Line)
		if err != nil {
			return errors.Wrapf(err, "line %d", total+1)
		}

		endFn := time.Since(startFn)

		err = output.Output.Put(model.NewItem(out))
		if err != nil {
			return errors.Wrap(err, "unable to push line")
		}

		total++

		for _, opt := range pipe.opts {
			err := opt.OnStageOutput(input.Details, output.Details, waitFn, endFn)
			if err != nil {
				return errors.Wrap(err, "unable to run stage output hook")
			}
		}
	}

	// forward the sentinel before leaving
	err := output.Output.Put(model.Sentinel())
	if err != nil {
		return errors.Wrap(err, "unable to push sentinel")
	}

	for _, opt := range pipe.opts {
		err := opt.AfterStage(output.Details, total, time.Since(pipe.startTime))
		if err != nil {
			return errors.Wrap(err, "unable to run after stage hook")
		}
	}

	return nil
}

func prepareStage(pipe *Pipeline, name string, input *model.Stage, opts ...StageOption) (*model.Stage, error) {
	stage := &model.Stage{
		Details: &model.StageInfo{
			Type: model.NormalStageType,
			Name: name,
		},
	}

	applyStageOptions(stage.Details, opts...)

	for _, opt := range pipe.opts {
		err := opt.PrepareStage(input.Details, stage.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare stage hook")
		}
	}

	output, err := pipe.addQueue(stage.Details.Capacity)
	if err != nil {
		return nil, err
	}

	stage.Output = output

	return stage, nil
}

func checkInput(pipe *Pipeline, input *model.Stage) error {
	if pipe == nil {
		return ErrPipelineMustBeSet
	}

	if input == nil || input.Output == nil {
		return ErrInputMustBeSet
	}

	pipe.mu.Lock()
	defer pipe.mu.Unlock()

	if !input.Consume() {
		return errors.Wrapf(ErrInputAlreadyConsumed, "stage %s", input.Details.Name)
	}

	return nil
}

// AddStage adds a stage reading the output of input. Every line goes through stageFn and
// the result is pushed to the stage output. The sentinel is forwarded as is and ends the stage.
func AddStage(p *Pipeline, name string, input *model.Stage, stageFn StageFn, opts ...StageOption) (*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	if stageFn == nil {
		return nil, ErrStageFnMustBeSet
	}

	err := checkInput(p, input)
	if err != nil {
		return nil, err
	}

	stage, err := prepareStage(p, name, input, opts...)
	if err != nil {
		return nil, err
	}

	p.addGoFn(name, func(ctx context.Context) error {
		return runStage(ctx, p, input, stage, stageFn)
	})

	return stage, nil
}
