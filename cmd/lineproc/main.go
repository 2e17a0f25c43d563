// Command lineproc reads lines from stdin until a STOP line, joins them with spaces, replaces
// every "++" with "^" and writes the text to stdout as 80 character records.
//
// It is configured through LINEPROC_* environment variables, see internal/config.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-line-processor/internal/config"
	"github.com/askiada/go-line-processor/internal/logging"
	"github.com/askiada/go-line-processor/pkg/lineproc"
	"github.com/askiada/go-line-processor/pkg/pipeline/drawer"
	"github.com/askiada/go-line-processor/pkg/pipeline/measure"
	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	// A closed stdout must surface as EPIPE instead of killing the process.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// Restore the default handlers after the first signal so a second one kills the process.
	context.AfterFunc(ctx, stop)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitError)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("falling back to the default logger", zap.Error(err))
	}

	err = run(ctx, cfg, logger, os.Stdin, os.Stdout)
	code := exitCode(ctx, err)

	switch {
	case code == exitInterrupted:
		logger.Warn("interrupted", zap.Error(err))
	case err != nil && code == exitOK:
		logger.Debug("stdout closed early", zap.Error(err))
	case err != nil:
		logger.Error("pipeline failed", zap.Error(err))
	}

	_ = logger.Sync()

	stop()
	os.Exit(code)
}

type reports struct {
	opts      []model.PipelineOption
	dotDrawer *drawer.DOTDrawer
}

func newReports(cfg *config.Config, logger *zap.Logger) *reports {
	rep := &reports{opts: []model.PipelineOption{logging.PipelineLogger(logger)}}

	if cfg.GraphFile != "" {
		msr := measure.NewDefaultMeasure()
		rep.dotDrawer = drawer.NewDOTDrawer(cfg.GraphFile)
		rep.opts = append(rep.opts,
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(rep.dotDrawer, msr),
		)
	}

	if cfg.MetricsFile != "" {
		rep.opts = append(rep.opts, measure.NewPrometheus(cfg.MetricsFile))
	}

	return rep
}

// logBottleneck logs the slowest stage of a finished run. It needs the graph.
func (rep *reports) logBottleneck(logger *zap.Logger) {
	if rep.dotDrawer == nil {
		return
	}

	flows, err := rep.dotDrawer.Flows()
	if err != nil || len(flows) == 0 {
		logger.Debug("no bottleneck found", zap.Error(err))

		return
	}

	logger.Info("bottleneck",
		zap.String("stage", flows[0].Stage),
		zap.Duration("avg_per_line", flows[0].AVGDuration),
	)
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	rep := newReports(cfg, logger)

	pipe, err := lineproc.New(stdin, stdout,
		lineproc.WithFlushTail(cfg.FlushTail),
		lineproc.WithPipelineOptions(rep.opts...),
	)
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	err = pipe.Run(ctx)
	if err != nil {
		return errors.Wrapf(err, "run %s", pipe.ID())
	}

	rep.logBottleneck(logger.With(zap.Stringer("run_id", pipe.ID())))

	return nil
}

// isBrokenPipe reports whether the reader of stdout went away, like head does.
func isBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case ctx.Err() != nil:
		return exitInterrupted
	case isBrokenPipe(err):
		return exitOK
	default:
		return exitError
	}
}
