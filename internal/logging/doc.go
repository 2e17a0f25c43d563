// Package logging builds the zap logger used by lineproc.
//
// Production mode writes JSON lines, development mode writes coloured console output.
// Both write to stderr since stdout carries the records.
//
// PipelineLogger turns a logger into a pipeline option reporting the stage lifecycle:
//
//	logger, err := logging.New(logging.Config{Level: "debug"})
//	pipe, err := pipeline.New(logging.PipelineLogger(logger))
package logging
