package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
	"github.com/askiada/go-line-processor/pkg/queue"
)

func newTestStage(t *testing.T, pipe *Pipeline, name string) *model.Stage {
	t.Helper()

	output, err := pipe.addQueue(0)
	require.NoError(t, err)

	return &model.Stage{Output: output, Details: &model.StageInfo{Name: name}}
}

func TestAddQueueDefaultCapacity(t *testing.T) {
	t.Parallel()

	pipe, err := New()
	require.NoError(t, err)

	q, err := pipe.addQueue(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultQueueCapacity, q.Cap())
}

func TestRunStageForwardsSentinel(t *testing.T) {
	t.Parallel()

	pipe, err := New()
	require.NoError(t, err)

	input := newTestStage(t, pipe, "input")
	output := newTestStage(t, pipe, "output")

	require.NoError(t, input.Output.Put(model.NewItem(model.Line("a"))))
	require.NoError(t, input.Output.Put(model.Sentinel()))

	upper := func(_ context.Context, line model.Line) (model.Line, error) {
		line[0] -= 'a' - 'A'

		return line, nil
	}

	require.NoError(t, runStage(t.Context(), pipe, input, output, upper))

	item, err := output.Output.Get()
	require.NoError(t, err)
	assert.Equal(t, model.Line("A"), item.Line)

	item, err = output.Output.Get()
	require.NoError(t, err)
	assert.True(t, item.IsSentinel())
	assert.Zero(t, output.Output.Len())
}

func TestCloseQueuesUnblocksStages(t *testing.T) {
	t.Parallel()

	pipe, err := New()
	require.NoError(t, err)

	input := newTestStage(t, pipe, "input")
	output := newTestStage(t, pipe, "output")

	done := make(chan error, 1)

	go func() {
		done <- runStage(t.Context(), pipe, input, output, func(_ context.Context, line model.Line) (model.Line, error) {
			return line, nil
		})
	}()

	pipe.closeQueues()

	require.ErrorIs(t, <-done, queue.ErrClosed)
}

func TestApplyStageOptionsCapacity(t *testing.T) {
	t.Parallel()

	info := &model.StageInfo{}
	applyStageOptions(info)
	assert.Equal(t, DefaultQueueCapacity, info.Capacity)

	info = &model.StageInfo{}
	applyStageOptions(info, StageCapacity(3))
	assert.Equal(t, 3, info.Capacity)
}
