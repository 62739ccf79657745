package detector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wsantos08/outlierscan/internal/model"
)

// detectParallel fans the per-column computations out over an errgroup.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled worker
// pool because the columns are mutually independent and the group handles
// the concurrency limit correctly. Each column writes into its own slot of
// an index-addressed result slice, so declaration order is preserved no
// matter which goroutine finishes first.
func detectParallel(columns []model.Column, rowCount int, multiplier float64, limit int) []*model.OutlierRecord {
	records := make([]*model.OutlierRecord, len(columns))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(limit)

	for i := range columns {
		g.Go(func() error {
			records[i] = detectColumn(&columns[i], rowCount, multiplier)
			return nil
		})
	}

	// The per-column work never returns an error, so Wait only synchronizes.
	_ = g.Wait() //nolint:errcheck // no error paths in the group

	return records
}
