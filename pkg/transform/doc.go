// Package transform provides the text operations of the line processor.
//
// ReplaceSeparator and ReplacePlusPairs are pipeline stage functions. Reflow is a pipeline
// sink cutting the text it receives into fixed width records.
package transform
