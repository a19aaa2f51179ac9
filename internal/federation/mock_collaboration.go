// Package federation provides a local stand-in for the federated
// orchestration layer: several site datasets computed side by side on
// one machine, the way a mock client exercises the algorithm before
// it runs against real nodes. No cross-site aggregation happens here;
// the output is one partial bundle per site.
package federation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"stratastats/adapters/stats/engine"
	"stratastats/internal"
	"stratastats/ports"
)

// MockCollaboration runs the engine over a set of registered site
// datasets concurrently. Safe because the engine is stateless and
// each site gets its own table.
type MockCollaboration struct {
	engine *engine.Engine
	sites  map[string]ports.TableSource
	log    *internal.Logger
}

// NewMockCollaboration creates an empty collaboration
func NewMockCollaboration(eng *engine.Engine, log *internal.Logger) *MockCollaboration {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &MockCollaboration{
		engine: eng,
		sites:  make(map[string]ports.TableSource),
		log:    log,
	}
}

// RegisterSite adds one organization's dataset under a site name.
func (c *MockCollaboration) RegisterSite(name string, source ports.TableSource) error {
	if name == "" {
		return fmt.Errorf("site name cannot be empty")
	}
	if _, exists := c.sites[name]; exists {
		return fmt.Errorf("site %q already registered", name)
	}
	c.sites[name] = source
	return nil
}

// SiteNames returns registered sites in deterministic order.
func (c *MockCollaboration) SiteNames() []string {
	names := make([]string, 0, len(c.sites))
	for name := range c.sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunAll computes every site's partial stats. If any site fails the
// whole run fails: a collaboration with a partial set of site results
// cannot be aggregated safely, mirroring the engine's own
// all-or-nothing policy one level up.
func (c *MockCollaboration) RunAll(ctx context.Context) (map[string]SiteResult, error) {
	results := make(map[string]SiteResult, len(c.sites))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range c.SiteNames() {
		source := c.sites[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table, err := source.ReadTable()
			if err != nil {
				return fmt.Errorf("site %s: %w", name, err)
			}
			bundle, err := c.engine.ComputePartialStats(table)
			if err != nil {
				return fmt.Errorf("site %s: %w", name, err)
			}
			mu.Lock()
			results[name] = SiteResult{Site: name, Bundle: bundle, Visits: table.NumRows()}
			mu.Unlock()
			c.log.Info("site %s computed (%d visits)", name, table.NumRows())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SiteResult is one organization's partial output within the mock run.
type SiteResult struct {
	Site   string         `json:"site"`
	Bundle map[string]any `json:"bundle"`
	Visits int            `json:"visits"`
}
