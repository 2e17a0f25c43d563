package transform

import (
	"bytes"
	"context"

	"github.com/askiada/go-line-processor/pkg/pipeline"
	"github.com/askiada/go-line-processor/pkg/pipeline/model"
)

// Substitute returns a stage function replacing every non-overlapping occurrence of old with
// replacement. Matches are searched left to right and the search resumes right after a match.
func Substitute(old, replacement string) pipeline.StageFn {
	oldBytes := []byte(old)
	newBytes := []byte(replacement)

	return func(_ context.Context, line model.Line) (model.Line, error) {
		if len(oldBytes) == 0 {
			return line, nil
		}

		idx := bytes.Index(line, oldBytes)
		if idx < 0 {
			return line, nil
		}

		out := make(model.Line, 0, len(line))

		for idx >= 0 {
			out = append(out, line[:idx]...)
			out = append(out, newBytes...)
			line = line[idx+len(oldBytes):]
			idx = bytes.Index(line, oldBytes)
		}

		return append(out, line...), nil
	}
}

// ReplacePlusPairs replaces every "++" with "^". "+++" becomes "^+".
var ReplacePlusPairs = Substitute("++", "^")
