package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
	"github.com/askiada/go-line-processor/pkg/queue"
)

// Pipeline is a pipeline of stages.
type Pipeline struct {
	mu        sync.Mutex
	id        uuid.UUID
	opts      []model.PipelineOption
	queues    []*queue.Queue[model.Item]
	goFn      []func(ctx context.Context) error
	startTime time.Time
	hasSink   bool
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		id:        uuid.New(),
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		if binder, ok := opt.(model.RunBinder); ok {
			binder.BindRun(pipe.id)
		}

		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// ID returns the identifier of the pipeline run.
func (p *Pipeline) ID() uuid.UUID {
	return p.id
}

func (p *Pipeline) addQueue(capacity int) (*queue.Queue[model.Item], error) {
	if capacity == 0 {
		capacity = DefaultQueueCapacity
	}

	q, err := queue.New[model.Item](capacity)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create stage queue")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.queues = append(p.queues, q)

	return q, nil
}

func (p *Pipeline) addGoFn(name string, fn func(ctx context.Context) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.goFn = append(p.goFn, func(ctx context.Context) error {
		return errors.Wrap(fn(ctx), name)
	})
}

// closeQueues unblocks every stage waiting on a queue.
func (p *Pipeline) closeQueues() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, q := range p.queues {
		q.Close()
	}
}

// Run starts the pipeline and waits for it to finish.
// It returns the first error encountered by a stage.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	hasSink := p.hasSink
	goFn := p.goFn
	p.mu.Unlock()

	if !hasSink {
		return ErrSinkMustBeSet
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(dCtx, p.closeQueues)

	defer stop()

	for _, fn := range goFn {
		errGrp.Go(func() error {
			return fn(dCtx)
		})
	}

	// Wait for all stages to finish.
	err := errGrp.Wait()
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), err.Error())
		}

		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
