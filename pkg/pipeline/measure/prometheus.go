package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

const namespace = "lineproc"

// Prometheus is a pipeline option exporting per stage metrics on its own registry.
// When a file name is set, the registry is written to it in the text exposition format
// once the pipeline is finished, ready for a node exporter textfile collector.
type Prometheus struct {
	registry *prometheus.Registry
	fileName string

	lines       *prometheus.CounterVec
	computation *prometheus.HistogramVec
	wait        *prometheus.HistogramVec
	capacity    *prometheus.GaugeVec
	duration    *prometheus.GaugeVec
}

// NewPrometheus creates the option. fileName may be empty.
func NewPrometheus(fileName string) *Prometheus {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Prometheus{
		registry: registry,
		fileName: fileName,
		lines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_lines_total",
				Help:      "Number of lines pushed by a stage",
			},
			[]string{"stage"},
		),
		computation: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_computation_seconds",
				Help:      "Time spent handling one line",
				Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
			},
			[]string{"stage"},
		),
		wait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "queue_wait_seconds",
				Help:      "Time a stage waited for a line from its input queue",
				Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
			},
			[]string{"stage", "input"},
		),
		capacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_capacity",
				Help:      "Capacity of the stage output queue",
			},
			[]string{"stage"},
		),
		duration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stage_end_seconds",
				Help:      "Time between the pipeline creation and the end of the stage",
			},
			[]string{"stage"},
		),
	}
}

// Gatherer returns the registry holding the metrics.
func (p *Prometheus) Gatherer() prometheus.Gatherer {
	return p.registry
}

func (p *Prometheus) New() error {
	return nil
}

func (p *Prometheus) PrepareStage(_, stage *model.StageInfo) error {
	p.capacity.WithLabelValues(stage.Name).Set(float64(stage.Capacity))

	return nil
}

func (p *Prometheus) PrepareSink(_, _ *model.StageInfo) error {
	return nil
}

func (p *Prometheus) OnStageOutput(parentStage, stage *model.StageInfo, waitDuration, computationDuration time.Duration) error {
	p.lines.WithLabelValues(stage.Name).Inc()
	p.computation.WithLabelValues(stage.Name).Observe(computationDuration.Seconds())

	if stage.Type != model.RootStageType {
		p.wait.WithLabelValues(stage.Name, parentStage.Name).Observe(waitDuration.Seconds())
	}

	return nil
}

func (p *Prometheus) OnSinkOutput(parentStage, sink *model.StageInfo, waitDuration, computationDuration time.Duration) error {
	return p.OnStageOutput(parentStage, sink, waitDuration, computationDuration)
}

func (p *Prometheus) AfterStage(stage *model.StageInfo, _ int64, totalDuration time.Duration) error {
	p.duration.WithLabelValues(stage.Name).Set(totalDuration.Seconds())

	return nil
}

func (p *Prometheus) Finish() error {
	if p.fileName == "" {
		return nil
	}

	err := prometheus.WriteToTextfile(p.fileName, p.registry)
	if err != nil {
		return errors.Wrapf(err, "unable to write metrics to %s", p.fileName)
	}

	return nil
}

var _ model.PipelineOption = (*Prometheus)(nil)
