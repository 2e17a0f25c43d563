package model

// Line is one unit of work handed from a stage to the next one.
// The receiving stage becomes its only owner.
type Line []byte

// Item is what travels through a queue: either a line or the end of stream sentinel.
type Item struct {
	Line     Line
	sentinel bool
}

// NewItem wraps a line into an item.
func NewItem(line Line) Item {
	return Item{Line: line}
}

// Sentinel returns the item signalling that no more lines will arrive.
func Sentinel() Item {
	return Item{sentinel: true}
}

// IsSentinel reports whether the item marks the end of stream.
func (i Item) IsSentinel() bool {
	return i.sentinel
}
