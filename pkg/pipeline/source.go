package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// StopLine is the input line ending the stream.
var StopLine = []byte("STOP\n")

func prepareRootStage(pipe *Pipeline, stage *model.Stage, opts ...StageOption) error {
	applyStageOptions(stage.Details, opts...)

	for _, opt := range pipe.opts {
		err := opt.PrepareStage(model.StartStage, stage.Details)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare stage hook")
		}
	}

	output, err := pipe.addQueue(stage.Details.Capacity)
	if err != nil {
		return err
	}

	stage.Output = output

	return nil
}

type readResult struct {
	line []byte
	err  error
}

// readLines reads rdr in its own goroutine so a blocked read never holds the source back.
// It stops after StopLine, a read error or once ctx is done.
func readLines(ctx context.Context, rdr io.Reader) <-chan readResult {
	results := make(chan readResult)

	go func() {
		defer close(results)

		reader := bufio.NewReader(rdr)

		for {
			line, err := reader.ReadBytes('\n')

			select {
			case results <- readResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil || bytes.Equal(line, StopLine) {
				return
			}
		}
	}()

	return results
}

func runSource(ctx context.Context, pipe *Pipeline, rdr io.Reader, stage *model.Stage) error {
	results := readLines(ctx, rdr)

	var total int64

	for {
		start := time.Now()

		var (
			res readResult
			ok  bool
		)

		select {
		case res, ok = <-results:
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "unable to read line")
		}

		if !ok {
			return ErrReaderStopped
		}

		line, readErr := res.line, res.err
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return errors.Wrap(readErr, "unable to read line")
		}

		if bytes.Equal(line, StopLine) || (len(line) == 0 && readErr != nil) {
			break
		}

		endFn := time.Since(start)

		err := stage.Output.Put(model.NewItem(line))
		if err != nil {
			return errors.Wrap(err, "unable to push line")
		}

		total++

		for _, opt := range pipe.opts {
			err := opt.OnStageOutput(model.StartStage, stage.Details, 0, endFn)
			if err != nil {
				return errors.Wrap(err, "unable to run stage output hook")
			}
		}

		// a last line without newline is still a line
		if readErr != nil {
			break
		}
	}

	err := stage.Output.Put(model.Sentinel())
	if err != nil {
		return errors.Wrap(err, "unable to push sentinel")
	}

	for _, opt := range pipe.opts {
		err := opt.AfterStage(stage.Details, total, time.Since(pipe.startTime))
		if err != nil {
			return errors.Wrap(err, "unable to run after stage hook")
		}
	}

	return nil
}

// AddSource adds the root stage of the pipeline. It reads rdr line by line and pushes every line,
// newline included, to its output until it reads StopLine or the end of rdr.
// The sentinel is pushed last. When the pipeline aborts, the stage returns even if a read
// on rdr is still pending; that read is abandoned.
func AddSource(p *Pipeline, name string, rdr io.Reader, opts ...StageOption) (*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	if rdr == nil {
		return nil, ErrInputMustBeSet
	}

	stage := &model.Stage{
		Details: &model.StageInfo{
			Type: model.RootStageType,
			Name: name,
		},
	}

	err := prepareRootStage(p, stage, opts...)
	if err != nil {
		return nil, err
	}

	p.addGoFn(name, func(ctx context.Context) error {
		return runSource(ctx, p, rdr, stage)
	})

	return stage, nil
}
