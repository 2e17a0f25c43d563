package pipeline

import "github.com/askiada/go-line-processor/pkg/pipeline/model"

// DefaultQueueCapacity is the capacity of a stage output queue when none is given.
const DefaultQueueCapacity = 50

// StageOption configures a stage when it is added to the pipeline.
type StageOption func(s *model.StageInfo)

func applyStageOptions(info *model.StageInfo, opts ...StageOption) {
	for _, opt := range opts {
		opt(info)
	}

	if info.Capacity == 0 {
		info.Capacity = DefaultQueueCapacity
	}
}

// StageCapacity sets the capacity of the stage output queue.
func StageCapacity(capacity int) StageOption {
	return func(s *model.StageInfo) {
		s.Capacity = capacity
	}
}
