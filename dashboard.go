package uniquest

import (
	"context"
	"fmt"
	"sort"
)

// Dashboard loads the backend's analytics overview.
type Dashboard struct {
	analytics AnalyticsService
	identity  Identity
}

// NewDashboard creates a Dashboard.
func NewDashboard(analytics AnalyticsService, identity Identity) *Dashboard {
	return &Dashboard{analytics: analytics, identity: identity}
}

// Load fetches the overview. A missing credential is reported as
// ErrUnauthenticated without contacting the backend.
func (d *Dashboard) Load(ctx context.Context) (*Overview, error) {
	token, err := d.identity.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if token == "" {
		return nil, ErrUnauthenticated
	}
	return d.analytics.Overview(ctx, token)
}

// Bucket is one named count of a breakdown.
type Bucket struct {
	Name  string
	Count int
}

// Buckets turns a breakdown map into a slice sorted by descending count,
// then name.
func Buckets(m map[string]int) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, v := range m {
		out = append(out, Bucket{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
