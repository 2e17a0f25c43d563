package model

import "github.com/askiada/go-line-processor/pkg/queue"

type stageType string

// Stage types.
const (
	// RootStageType is the stage reading the input stream.
	RootStageType stageType = "root"
	// NormalStageType is a stage transforming lines.
	NormalStageType stageType = "stage"
	// SinkStageType is the last stage, consuming lines.
	SinkStageType stageType = "sink"
)

// StageInfo describes a stage to the pipeline options.
type StageInfo struct {
	Type stageType
	Name string
	// Capacity of the stage output queue, 0 for a sink.
	Capacity int
}

// StartStage and EndStage are virtual stages before the root stage and after the sink.
// The root stage reports StartStage as its parent.
var (
	StartStage = &StageInfo{Name: "start"}
	EndStage   = &StageInfo{Name: "end"}
)

// Stage is a registered stage of a pipeline. Output is nil for a sink.
type Stage struct {
	Output   *queue.Queue[Item]
	Details  *StageInfo
	consumed bool
}

// Consume marks the stage output as read by another stage.
// It returns false if the output already had a consumer.
func (s *Stage) Consume() bool {
	if s.consumed {
		return false
	}

	s.consumed = true

	return true
}
