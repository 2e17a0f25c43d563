package transform

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-line-processor/pkg/pipeline"
	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// RecordWidth is the number of bytes in an output record.
const RecordWidth = 80

// ErrInvalidWidth is returned by NewReflow when the record width is not positive.
var ErrInvalidWidth = errors.New("record width must be greater than 0")

// ReflowOption configures a Reflow.
type ReflowOption func(r *Reflow)

// FlushTail makes Close write the bytes left in the carry buffer as a last, shorter record.
// Without it they are dropped.
func FlushTail() ReflowOption {
	return func(r *Reflow) {
		r.flushTail = true
	}
}

// Width sets the record width.
func Width(width int) ReflowOption {
	return func(r *Reflow) {
		r.width = width
	}
}

// Reflow is a sink concatenating the lines it consumes and writing them to an io.Writer
// as records of exactly Width bytes, each followed by a newline.
type Reflow struct {
	wrt       io.Writer
	carry     []byte
	record    []byte
	width     int
	records   int64
	flushTail bool
}

// NewReflow creates a reflow sink writing to wrt.
func NewReflow(wrt io.Writer, opts ...ReflowOption) (*Reflow, error) {
	r := &Reflow{
		wrt:   wrt,
		width: RecordWidth,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.width <= 0 {
		return nil, errors.Wrapf(ErrInvalidWidth, "got %d", r.width)
	}

	r.record = make([]byte, 0, r.width+1)

	return r, nil
}

func (r *Reflow) write(data []byte) error {
	r.record = append(r.record[:0], data...)
	r.record = append(r.record, '\n')

	_, err := r.wrt.Write(r.record)
	if err != nil {
		return errors.Wrapf(err, "unable to write record %d", r.records+1)
	}

	r.records++

	return nil
}

// Consume appends line to the carry buffer and writes every complete record it holds.
func (r *Reflow) Consume(_ context.Context, line model.Line) error {
	r.carry = append(r.carry, line...)

	start := 0
	for len(r.carry)-start >= r.width {
		err := r.write(r.carry[start : start+r.width])
		if err != nil {
			return err
		}

		start += r.width
	}

	r.carry = append(r.carry[:0], r.carry[start:]...)

	return nil
}

// Close runs on end of stream. The carry buffer is written only with FlushTail.
func (r *Reflow) Close() error {
	defer func() {
		r.carry = r.carry[:0]
	}()

	if !r.flushTail || len(r.carry) == 0 {
		return nil
	}

	return r.write(r.carry)
}

// Records returns the number of records written so far.
func (r *Reflow) Records() int64 {
	return r.records
}

// Pending returns the bytes waiting in the carry buffer.
func (r *Reflow) Pending() int {
	return len(r.carry)
}

var _ pipeline.Sink = (*Reflow)(nil)
