package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/boxsim/internal/scene"
)

// Batch runs several independent scenes at once, one goroutine per scene.
// Metrics are stateful, so each run gets a fresh set from newMetrics.
type Batch struct {
	newMetrics func() []Metric
}

func NewBatch(newMetrics func() []Metric) *Batch {
	return &Batch{newMetrics: newMetrics}
}

// Run returns results in the order of scenes. The first error wins.
func (b *Batch) Run(ctx context.Context, scenes []*scene.Scene, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(scenes))
	errs := make([]error, len(scenes))

	var wg sync.WaitGroup
	for i, sc := range scenes {
		wg.Add(1)
		go func(idx int, sc *scene.Scene) {
			defer wg.Done()

			sim := New()
			if b.newMetrics != nil {
				for _, m := range b.newMetrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, sc, cfg)
		}(i, sc)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", i, err)
		}
	}

	return results, nil
}
