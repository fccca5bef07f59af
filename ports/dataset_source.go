package ports

import (
	"context"

	"heartrisk/domain/dataset"
)

// DatasetSource reads the raw (uncleaned) heart dataset.
type DatasetSource interface {
	Read(ctx context.Context) (*dataset.Table, error)
	Describe() string
}
