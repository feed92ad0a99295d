package interfaces

import (
	"context"

	"holdings-engine/internal/types"
)

// ExportSink serializes a formatted snapshot table to a downloadable file
// and returns the path it wrote. The byte format belongs to the sink.
type ExportSink interface {
	Write(ctx context.Context, rows []types.ExportRow) (string, error)
}
