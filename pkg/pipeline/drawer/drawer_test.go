package drawer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-line-processor/pkg/pipeline/drawer"
	"github.com/askiada/go-line-processor/pkg/pipeline/measure"
	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "pipeline.dot")
	msr := measure.NewDefaultMeasure()
	measureOpt := measure.PipelineMeasure(msr)
	drawerOpt := drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), msr)

	source := &model.StageInfo{Type: model.RootStageType, Name: "source"}
	separator := &model.StageInfo{Type: model.NormalStageType, Name: "separator"}
	sink := &model.StageInfo{Type: model.SinkStageType, Name: "sink"}

	for _, opt := range []model.PipelineOption{measureOpt, drawerOpt} {
		require.NoError(t, opt.New())
		require.NoError(t, opt.PrepareStage(model.StartStage, source))
		require.NoError(t, opt.PrepareStage(source, separator))
		require.NoError(t, opt.PrepareSink(separator, sink))
		require.NoError(t, opt.OnStageOutput(source, separator, 3*time.Millisecond, time.Millisecond))
		require.NoError(t, opt.OnSinkOutput(separator, sink, 9*time.Millisecond, time.Millisecond))
		require.NoError(t, opt.AfterStage(sink, 1, time.Second))
	}

	require.NoError(t, measureOpt.Finish())
	require.NoError(t, drawerOpt.Finish())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)

	got := string(content)
	assert.Contains(t, got, "strict digraph")
	assert.Contains(t, got, `rankdir="LR"`)
	assert.Contains(t, got, `"start" -> "source"`)
	assert.Contains(t, got, `"source" -> "separator"`)
	assert.Contains(t, got, `"separator" -> "sink"`)
	assert.Contains(t, got, `"sink" -> "end"`)
	// longest wait is red, shortest is blue
	assert.Contains(t, got, `color="#f00000"`)
	assert.Contains(t, got, `color="#0000f0"`)
	assert.Contains(t, got, "lines: 1, end: 1s")
}

func TestPipelineDrawerWithoutMeasure(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "pipeline.dot")
	opt := drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), nil)

	require.NoError(t, opt.New())
	require.NoError(t, opt.PrepareStage(model.StartStage, &model.StageInfo{Name: "source"}))
	require.NoError(t, opt.Finish())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "source"`)
}

func TestPipelineDrawerDuplicateStage(t *testing.T) {
	t.Parallel()

	opt := drawer.PipelineDrawer(drawer.NewDOTDrawer(filepath.Join(t.TempDir(), "pipeline.dot")), nil)

	require.NoError(t, opt.New())
	require.NoError(t, opt.PrepareStage(model.StartStage, &model.StageInfo{Name: "source"}))
	require.Error(t, opt.PrepareStage(model.StartStage, &model.StageInfo{Name: "source"}))
}

func TestDOTDrawerFlows(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	measureOpt := measure.PipelineMeasure(msr)
	dotDrawer := drawer.NewDOTDrawer(filepath.Join(t.TempDir(), "pipeline.dot"))
	drawerOpt := drawer.PipelineDrawer(dotDrawer, msr)

	source := &model.StageInfo{Type: model.RootStageType, Name: "source"}
	separator := &model.StageInfo{Type: model.NormalStageType, Name: "separator"}
	substitution := &model.StageInfo{Type: model.NormalStageType, Name: "substitution"}
	sink := &model.StageInfo{Type: model.SinkStageType, Name: "sink"}

	for _, opt := range []model.PipelineOption{measureOpt, drawerOpt} {
		require.NoError(t, opt.New())
		require.NoError(t, opt.PrepareStage(model.StartStage, source))
		require.NoError(t, opt.PrepareStage(source, separator))
		require.NoError(t, opt.PrepareStage(separator, substitution))
		require.NoError(t, opt.PrepareSink(substitution, sink))
		require.NoError(t, opt.OnStageOutput(model.StartStage, source, 0, 2*time.Microsecond))
		require.NoError(t, opt.OnStageOutput(source, separator, 0, 1*time.Microsecond))
		require.NoError(t, opt.OnStageOutput(separator, substitution, 0, 7*time.Microsecond))
		require.NoError(t, opt.OnSinkOutput(substitution, sink, 0, 3*time.Microsecond))
	}

	require.NoError(t, drawerOpt.Finish())

	flows, err := dotDrawer.Flows()
	require.NoError(t, err)

	assert.Equal(t, []drawer.Flow{
		{Stage: "substitution", AVGDuration: 7 * time.Microsecond},
		{Stage: "sink", AVGDuration: 3 * time.Microsecond, Slack: 4 * time.Microsecond},
		{Stage: "source", AVGDuration: 2 * time.Microsecond, Slack: 5 * time.Microsecond},
		{Stage: "separator", AVGDuration: 1 * time.Microsecond, Slack: 6 * time.Microsecond},
	}, flows)
}

func TestDOTDrawerFlowsWithoutPath(t *testing.T) {
	t.Parallel()

	dotDrawer := drawer.NewDOTDrawer(filepath.Join(t.TempDir(), "pipeline.dot"))
	require.NoError(t, dotDrawer.AddStep(model.StartStage.Name))
	require.NoError(t, dotDrawer.AddStep(model.EndStage.Name))

	_, err := dotDrawer.Flows()
	require.Error(t, err)
}

func TestPipelineDrawerQueueLabel(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "pipeline.dot")
	msr := measure.NewDefaultMeasure()
	measureOpt := measure.PipelineMeasure(msr)
	drawerOpt := drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), msr)

	source := &model.StageInfo{Type: model.RootStageType, Name: "source", Capacity: 50}
	sink := &model.StageInfo{Type: model.SinkStageType, Name: "sink"}

	for _, opt := range []model.PipelineOption{measureOpt, drawerOpt} {
		require.NoError(t, opt.New())
		require.NoError(t, opt.PrepareStage(model.StartStage, source))
		require.NoError(t, opt.PrepareSink(source, sink))
		require.NoError(t, opt.AfterStage(source, 2, time.Second))
		require.NoError(t, opt.AfterStage(sink, 2, 2*time.Second))
	}

	require.NoError(t, drawerOpt.Finish())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)

	got := string(content)
	assert.Contains(t, got, "lines: 2, end: 1s, queue: 50")
	assert.Contains(t, got, "lines: 2, end: 2s<")
}
