package drawer

import (
	"time"

	"github.com/askiada/go-line-processor/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a stage to the pipeline drawer.
	AddStep(stageName string) error
	// AddLink adds a link between parent and children stages.
	AddLink(parentStageName, childrenStageName string) error
	// Draw creates a file with the pipeline graph.
	Draw() error
	// SetTotalTime labels the stage with the time elapsed since startTime.
	SetTotalTime(stageName string, startTime time.Time) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
}
