package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// ErrUnknownStage is returned by a hook for a stage the measure was never told about.
var ErrUnknownStage = errors.New("no metric for stage")

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.StartStage.Name, 0)
	pm.AddMetric(model.EndStage.Name, 0)

	return nil
}

func (pm *pipelineMeasure) metric(name string) (Metric, error) {
	mt := pm.GetMetric(name)
	if mt == nil {
		return nil, errors.Wrap(ErrUnknownStage, name)
	}

	return mt, nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name, stage.Capacity)

	return nil
}

func (pm *pipelineMeasure) PrepareSink(_, sink *model.StageInfo) error {
	pm.AddMetric(sink.Name, sink.Capacity)

	return nil
}

func (pm *pipelineMeasure) OnStageOutput(parentStage, stage *model.StageInfo, waitDuration, computationDuration time.Duration) error {
	mt, err := pm.metric(stage.Name)
	if err != nil {
		return err
	}

	mt.AddDuration(computationDuration)
	mt.AddTransportDuration(parentStage.Name, waitDuration)

	return nil
}

func (pm *pipelineMeasure) OnSinkOutput(parentStage, sink *model.StageInfo, waitDuration, computationDuration time.Duration) error {
	return pm.OnStageOutput(parentStage, sink, waitDuration, computationDuration)
}

func (pm *pipelineMeasure) AfterStage(stage *model.StageInfo, total int64, totalDuration time.Duration) error {
	mt, err := pm.metric(stage.Name)
	if err != nil {
		return err
	}

	mt.SetTotalDuration(total, totalDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure returns a pipeline option filling measure while the pipeline runs.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
