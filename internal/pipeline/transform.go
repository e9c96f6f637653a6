package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
)

// DWMLFlattener implements Flattener using the domain flatten functions.
type DWMLFlattener struct {
	logger *slog.Logger
}

// NewFlattener creates a DWMLFlattener.
func NewFlattener(logger *slog.Logger) *DWMLFlattener {
	return &DWMLFlattener{logger: logger}
}

func (f *DWMLFlattener) Flatten(_ context.Context, data []byte, meta domain.RunMeta) (*domain.Table, error) {
	table, err := domain.Flatten(data, meta)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("dwml flattened", "rows", table.Len(), "columns", len(table.Columns))
	return table, nil
}
