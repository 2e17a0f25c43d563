package logging_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/go-line-processor/internal/logging"
	"github.com/askiada/go-line-processor/pkg/pipeline"
	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg     logging.Config
		level   zapcore.Level
		wantErr bool
	}{
		"default":     {cfg: logging.DefaultConfig(), level: zapcore.InfoLevel},
		"empty level": {cfg: logging.Config{}, level: zapcore.InfoLevel},
		"debug":       {cfg: logging.Config{Level: "debug", Development: true}, level: zapcore.DebugLevel},
		"warn":        {cfg: logging.Config{Level: "WARN"}, level: zapcore.WarnLevel},
		"invalid":     {cfg: logging.Config{Level: "chatty"}, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger, err := logging.New(tc.cfg)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.level))
			assert.False(t, logger.Core().Enabled(tc.level-1))
		})
	}
}

func TestNewDefault(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, logging.NewDefault())
}

func TestPipelineLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	opt := logging.PipelineLogger(zap.New(core))

	source := &model.StageInfo{Type: model.RootStageType, Name: "source", Capacity: 50}
	sink := &model.StageInfo{Type: model.SinkStageType, Name: "sink"}

	require.NoError(t, opt.New())
	require.NoError(t, opt.PrepareStage(model.StartStage, source))
	require.NoError(t, opt.PrepareSink(source, sink))
	require.NoError(t, opt.OnStageOutput(model.StartStage, source, 0, time.Millisecond))
	require.NoError(t, opt.OnSinkOutput(source, sink, time.Millisecond, time.Millisecond))
	require.NoError(t, opt.AfterStage(sink, 12, time.Second))
	require.NoError(t, opt.Finish())

	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}

	assert.Equal(t, []string{"pipeline created", "stage added", "sink added", "stage finished", "pipeline finished"}, messages)

	finished := logs.FilterMessage("stage finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, zapcore.InfoLevel, finished[0].Level)
	assert.Equal(t, "sink", finished[0].ContextMap()["stage"])
	assert.Equal(t, int64(12), finished[0].ContextMap()["lines"])
}

func TestPipelineLoggerNil(t *testing.T) {
	t.Parallel()

	opt := logging.PipelineLogger(nil)
	require.NoError(t, opt.New())
	require.NoError(t, opt.Finish())
}

type discardSink struct{}

func (discardSink) Consume(context.Context, model.Line) error { return nil }

func (discardSink) Close() error { return nil }

func TestPipelineLoggerRunID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)

	pipe, err := pipeline.New(logging.PipelineLogger(zap.New(core)))
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", strings.NewReader("a\nb\nSTOP\n"))
	require.NoError(t, err)
	require.NoError(t, pipeline.AddSink(pipe, "sink", source, discardSink{}))
	require.NoError(t, pipe.Run(t.Context()))

	require.Equal(t, 3, logs.Len())

	for _, entry := range logs.All() {
		assert.Equal(t, pipe.ID().String(), entry.ContextMap()["run_id"], entry.Message)
	}

	for _, entry := range logs.FilterMessage("stage finished").All() {
		assert.Equal(t, int64(2), entry.ContextMap()["lines"])
	}
}
