package transform

import (
	"context"

	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// ReplaceSeparator replaces the last byte of line, normally its newline, with a space.
// The line is modified in place. A line without a trailing newline loses its last byte.
func ReplaceSeparator(_ context.Context, line model.Line) (model.Line, error) {
	if len(line) == 0 {
		return line, nil
	}

	line[len(line)-1] = ' '

	return line, nil
}
