package summarizer

import (
	"context"

	"records-atlas/internal/utils/text"
)

// NoOp is an overview writer that returns the original prose truncated.
// It is the default when no API key is configured.
type NoOp struct{}

// NewNoOp creates a new NoOp overview writer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the prose truncated to the default overview length.
func (n *NoOp) Summarize(_ context.Context, prose string) (string, error) {
	return text.TruncateRunes(prose, defaultCharLimit, "..."), nil
}
