package pipeline_test

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// collectSink keeps every consumed line.
type collectSink struct {
	lines   []string
	closed  int
	onLine  func(n int)
	closeFn func() error
}

func (c *collectSink) Consume(_ context.Context, line model.Line) error {
	c.lines = append(c.lines, string(line))
	if c.onLine != nil {
		c.onLine(len(c.lines))
	}

	return nil
}

func (c *collectSink) Close() error {
	c.closed++
	if c.closeFn != nil {
		return c.closeFn()
	}

	return nil
}

func createInput(t *testing.T, total int) (string, []string) {
	t.Helper()

	lines := make([]string, 0, total)
	for i := range total {
		lines = append(lines, strconv.Itoa(i)+"\n")
	}

	return strings.Join(lines, "") + "STOP\n", lines
}

func identity(_ context.Context, line model.Line) (model.Line, error) {
	return line, nil
}

// endlessReader never runs out of lines and never sends STOP.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	const pattern = "line\n"
	for i := range p {
		p[i] = pattern[i%len(pattern)]
	}

	return len(p) - len(p)%len(pattern), nil
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

// recordOption counts the hook calls it receives.
type recordOption struct {
	mu          sync.Mutex
	prepared    []string
	outputs     map[string]int
	totals      map[string]int64
	finished    int
	newErr      error
	finishErr   error
	onOutputErr error
}

func newRecordOption() *recordOption {
	return &recordOption{
		outputs: make(map[string]int),
		totals:  make(map[string]int64),
	}
}

func (r *recordOption) New() error {
	return r.newErr
}

func (r *recordOption) PrepareStage(parentStage, stage *model.StageInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prepared = append(r.prepared, parentStage.Name+"->"+stage.Name)

	return nil
}

func (r *recordOption) PrepareSink(parentStage, sink *model.StageInfo) error {
	return r.PrepareStage(parentStage, sink)
}

func (r *recordOption) OnStageOutput(_, stage *model.StageInfo, _, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[stage.Name]++

	return r.onOutputErr
}

func (r *recordOption) OnSinkOutput(parentStage, sink *model.StageInfo, wait, computation time.Duration) error {
	return r.OnStageOutput(parentStage, sink, wait, computation)
}

func (r *recordOption) AfterStage(stage *model.StageInfo, total int64, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals[stage.Name] = total

	return nil
}

func (r *recordOption) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++

	return r.finishErr
}
