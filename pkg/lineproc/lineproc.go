// Package lineproc assembles the line processor: a source reading lines until STOP, a stage
// replacing each line separator with a space, a stage replacing "++" with "^" and a sink
// writing the resulting text as fixed width records.
package lineproc

import (
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline"
	"github.com/askiada/go-line-processor/pkg/pipeline/model"
	"github.com/askiada/go-line-processor/pkg/transform"
)

// Stage names, as they appear in logs, metrics and graphs.
const (
	SourceStage       = "source"
	SeparatorStage    = "separator"
	SubstitutionStage = "substitution"
	SinkStage         = "sink"
)

type settings struct {
	capacity    int
	width       int
	flushTail   bool
	pipeOptions []model.PipelineOption
}

// Option configures the line processor.
type Option func(s *settings)

// WithFlushTail writes the last partial record on end of stream instead of dropping it.
func WithFlushTail(flush bool) Option {
	return func(s *settings) {
		s.flushTail = flush
	}
}

// WithQueueCapacity sets the capacity of every queue between stages.
func WithQueueCapacity(capacity int) Option {
	return func(s *settings) {
		s.capacity = capacity
	}
}

// WithRecordWidth sets the number of bytes in an output record.
func WithRecordWidth(width int) Option {
	return func(s *settings) {
		s.width = width
	}
}

// WithPipelineOptions adds pipeline options such as measures or loggers.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(s *settings) {
		s.pipeOptions = append(s.pipeOptions, opts...)
	}
}

// New returns a pipeline reading lines from rdr and writing records to wrt. Call Run to start it.
func New(rdr io.Reader, wrt io.Writer, opts ...Option) (*pipeline.Pipeline, error) {
	cfg := &settings{
		capacity: pipeline.DefaultQueueCapacity,
		width:    transform.RecordWidth,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	reflowOpts := []transform.ReflowOption{transform.Width(cfg.width)}
	if cfg.flushTail {
		reflowOpts = append(reflowOpts, transform.FlushTail())
	}

	reflow, err := transform.NewReflow(wrt, reflowOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create sink")
	}

	pipe, err := pipeline.New(cfg.pipeOptions...)
	if err != nil {
		return nil, err
	}

	capacity := pipeline.StageCapacity(cfg.capacity)

	source, err := pipeline.AddSource(pipe, SourceStage, rdr, capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to add %s", SourceStage)
	}

	separator, err := pipeline.AddStage(pipe, SeparatorStage, source, transform.ReplaceSeparator, capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to add %s", SeparatorStage)
	}

	substitution, err := pipeline.AddStage(pipe, SubstitutionStage, separator, transform.ReplacePlusPairs, capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to add %s", SubstitutionStage)
	}

	err = pipeline.AddSink(pipe, SinkStage, substitution, reflow)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to add %s", SinkStage)
	}

	return pipe, nil
}
