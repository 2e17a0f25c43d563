package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline/measure"
	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}

	err = pd.AddStep(model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	err := pd.AddStep(stage.Name)
	if err != nil {
		return err
	}

	return pd.AddLink(parentStage.Name, stage.Name)
}

func (pd *pipelineDrawer) PrepareSink(parentStage, sink *model.StageInfo) error {
	err := pd.PrepareStage(parentStage, sink)
	if err != nil {
		return err
	}

	return pd.AddLink(sink.Name, model.EndStage.Name)
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.SetTotalTime(model.EndStage.Name, pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}

		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

func (pd *pipelineDrawer) OnStageOutput(_, _ *model.StageInfo, _, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) OnSinkOutput(_, _ *model.StageInfo, _, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) AfterStage(_ *model.StageInfo, _ int64, _ time.Duration) error {
	return nil
}

// PipelineDrawer returns a pipeline option drawing the pipeline once it is finished.
// When msr is not nil, it must be filled by a measure option of the same pipeline,
// and the graph is annotated with its timings.
func PipelineDrawer(drawer Drawer, msr measure.Measure) model.PipelineOption {
	return &pipelineDrawer{drawer, msr, time.Now()}
}
