package drawer

import (
	"sort"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// Flow is a stage on the path from the start to the end of the pipeline.
type Flow struct {
	Stage string
	// AVGDuration is the average time the stage spent on one line.
	AVGDuration time.Duration
	// Slack is how much faster than the slowest stage of the path the stage is.
	Slack time.Duration
}

// Flows returns the stages between start and end, the slowest first.
// Durations are only known once AddMeasure has run.
func (d *DOTDrawer) Flows() ([]Flow, error) {
	path, err := graph.ShortestPath(d.graph, model.StartStage.Name, model.EndStage.Name)
	if err != nil {
		return nil, errors.Wrap(err, "unable to find path from start to end")
	}

	flows := make([]Flow, 0, len(path))

	var slowest time.Duration

	for _, stageName := range path {
		if stageName == model.StartStage.Name || stageName == model.EndStage.Name {
			continue
		}

		_, properties, err := d.graph.VertexWithProperties(stageName)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to get vertex %s", stageName)
		}

		avg := time.Duration(properties.Weight)
		slowest = max(slowest, avg)

		flows = append(flows, Flow{Stage: stageName, AVGDuration: avg})
	}

	for i := range flows {
		flows[i].Slack = slowest - flows[i].AVGDuration
	}

	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Slack < flows[j].Slack
	})

	return flows, nil
}
