// Package pipeline provides a linear pipeline for processing lines of text.
//
// A pipeline is a chain of stages. The root stage reads lines from an input stream, every
// normal stage transforms the lines it receives, and the sink consumes the final lines.
// Each stage runs in its own goroutine and hands lines to the next one through a bounded
// queue. A stage that has handed a line over never touches it again.
//
// The end of the stream is signalled by a sentinel item produced once by the root stage.
// Every normal stage forwards the sentinel before returning, and the sink closes itself
// when it receives it. No other coordination exists between stages.
//
// The pipeline stops on the first error returned by a stage or when its context is cancelled.
// The queues are then closed so that every stage blocked on a queue returns, the root stage
// stops waiting on its reader, and Run reports the error.
package pipeline
