package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-line-processor/internal/store"
	"github.com/askiada/go-line-processor/pkg/pipeline/measure"
)

// DOTDrawer is a drawer that creates a DOT file with the pipeline graph.
// Render it with `dot -Tsvg`.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	store    store.CustomStore[string, string]
	fileName string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer(fileName string) *DOTDrawer {
	str := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		fileName: fileName,
		store:    str,
		graph:    graph.NewWithStore(graph.StringHash, graph.Store[string, string](str), graph.Directed()),
	}
}

// AddStep adds a stage to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children stages.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw creates a DOT file with the pipeline graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}

	err = dot(d.graph, file, GraphAttribute("rankdir", "LR"))
	if err != nil {
		_ = file.Close()

		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return errors.Wrapf(file.Close(), "unable to close file %s", d.fileName)
}

func setXLabel(label string, appendTo bool) func(*graph.VertexProperties) {
	return func(properties *graph.VertexProperties) {
		if properties.Attributes == nil {
			properties.Attributes = make(map[string]string)
		}

		if appendTo && properties.Attributes["xlabel"] != "" {
			properties.Attributes["xlabel"] += ", " + label

			return
		}

		properties.Attributes["xlabel"] = label
	}
}

func setWeight(avg time.Duration) func(*graph.VertexProperties) {
	return func(properties *graph.VertexProperties) {
		properties.Weight = int(avg)
	}
}

// SetTotalTime sets the total time for the stage.
func (d *DOTDrawer) SetTotalTime(stageName string, startTime time.Time) error {
	err := d.store.UpdateVertex(stageName, setXLabel(time.Since(startTime).String(), false))
	if err != nil {
		return errors.Wrapf(err, "unable to label vertex %s", stageName)
	}

	return nil
}

const maxRGB = 240

// edgeColors maps every average wait to a colour going from blue (shortest) to red (longest).
func edgeColors(msr measure.Measure) (map[time.Duration]string, error) {
	allChanElapsed := make(map[time.Duration]string)
	sortedAllChanElapsed := []time.Duration{}

	for _, stage := range msr.AllMetrics() {
		for _, info := range stage.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}

			if _, ok := allChanElapsed[info.Elapsed]; ok {
				continue
			}

			allChanElapsed[info.Elapsed] = ""

			sortedAllChanElapsed = append(sortedAllChanElapsed, info.Elapsed)
		}
	}

	if len(sortedAllChanElapsed) == 0 {
		return allChanElapsed, nil
	}

	sort.Slice(sortedAllChanElapsed, func(i, j int) bool {
		return sortedAllChanElapsed[i] > sortedAllChanElapsed[j]
	})

	maxValue := sortedAllChanElapsed[0]
	minValue := sortedAllChanElapsed[len(sortedAllChanElapsed)-1]

	for curr := range allChanElapsed {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(curr-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		color, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return nil, errors.Wrap(err, "unable to get colour")
		}

		allChanElapsed[curr] = color.ToHEX().String()
	}

	return allChanElapsed, nil
}

// AddMeasure adds measure to drawer.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	allChanElapsed, err := edgeColors(msr)
	if err != nil {
		return err
	}

	err = d.updateMetrics(msr, allChanElapsed)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *DOTDrawer) updateMetrics(msr measure.Measure, allChanElapsed map[time.Duration]string) error {
	for name, stage := range msr.AllMetrics() {
		if stageAvg := stage.AVGDuration(); stageAvg != 0 {
			err := d.store.UpdateVertex(name, setXLabel(stageAvg.String(), false), setWeight(stageAvg))
			if err != nil {
				return errors.Wrapf(err, "unable to label vertex %s", name)
			}
		}

		if stage.GetTotalDuration() > 0 {
			label := fmt.Sprintf("lines: %d, end: %s", stage.Total(), stage.GetTotalDuration())
			if capacity := stage.Capacity(); capacity > 0 {
				label += fmt.Sprintf(", queue: %d", capacity)
			}

			err := d.store.UpdateVertex(name, setXLabel(label, true))
			if err != nil {
				return errors.Wrapf(err, "unable to label vertex %s", name)
			}
		}

		for inputStage, info := range stage.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}

			err := d.graph.UpdateEdge(inputStage, name,
				graph.EdgeAttribute("label", info.Elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", allChanElapsed[info.Elapsed]), //nolint
			)
			if err != nil {
				return errors.Wrapf(err, "unable to update edge from %s to %s", inputStage, name)
			}
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the dot function.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// generateDOT walks the vertices in name order so the output is stable.
func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range sortedKeys(adjacencyMap) {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))

		for k, v := range sourceProperties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)

				continue
			}

			sourceAttributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		})

		adjacencies := adjacencyMap[vertex]
		for _, adjacency := range sortedKeys(adjacencies) {
			edge := adjacencies[adjacency]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
