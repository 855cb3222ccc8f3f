// ABOUTME: Client-side view state for the cached post list
// ABOUTME: Derives display order, last-updated, and activity history

package store

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mlowther/postdeck/internal/api"
)

// timeLayouts are the timestamp formats the backend has been seen to emit
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Posts holds the cached copy of the server's post list plus derived
// values. It is recomputed wholesale on every Replace; the server owns
// the records, this just decides how they are shown.
type Posts struct {
	items  []api.Post
	sorted []api.Post
}

// NewPosts creates an empty post store
func NewPosts() *Posts {
	return &Posts{}
}

// Replace swaps in a freshly fetched list and recomputes display order
func (p *Posts) Replace(posts []api.Post) {
	p.items = posts
	p.sorted = make([]api.Post, len(posts))
	copy(p.sorted, posts)
	// Stable: equal created_at values keep server order
	sort.SliceStable(p.sorted, func(i, j int) bool {
		return parseTime(p.sorted[i].CreatedAt).After(parseTime(p.sorted[j].CreatedAt))
	})
}

// Remove drops the post with the given id from the cache without a
// re-fetch. Used after a confirmed delete.
func (p *Posts) Remove(id int) {
	items := p.items[:0]
	for _, post := range p.items {
		if post.ID != id {
			items = append(items, post)
		}
	}
	p.Replace(items)
}

// Sorted returns posts in display order: created_at descending
func (p *Posts) Sorted() []api.Post {
	return p.sorted
}

// Len returns the number of cached posts
func (p *Posts) Len() int {
	return len(p.items)
}

// Get returns the cached post with the given id
func (p *Posts) Get(id int) (api.Post, bool) {
	for _, post := range p.items {
		if post.ID == id {
			return post, true
		}
	}
	return api.Post{}, false
}

// LastUpdated returns the post with the maximum updated_at, or nil when
// the cache is empty.
func (p *Posts) LastUpdated() *api.Post {
	if len(p.items) == 0 {
		return nil
	}

	best := 0
	bestTime := parseTime(p.items[0].UpdatedAt)
	for i := 1; i < len(p.items); i++ {
		if t := parseTime(p.items[i].UpdatedAt); t.After(bestTime) {
			best, bestTime = i, t
		}
	}
	return &p.items[best]
}

// Activity buckets creation timestamps into per-day counts for the most
// recent days, oldest first. Unparseable timestamps are skipped.
func (p *Posts) Activity(days int) []float64 {
	counts := make([]float64, days)
	today := time.Now().Truncate(24 * time.Hour)

	for _, post := range p.items {
		t := parseTime(post.CreatedAt)
		if t.IsZero() {
			continue
		}
		age := int(today.Sub(t.Truncate(24*time.Hour)).Hours() / 24)
		if age >= 0 && age < days {
			counts[days-1-age]++
		}
	}
	return counts
}

// parseTime tries the known backend layouts; zero time means unparseable
func parseTime(value string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate pretty-prints a backend timestamp. Values that fit no known
// layout come back verbatim, deliberately un-normalized.
func FormatDate(value string) string {
	t := parseTime(value)
	if t.IsZero() {
		return value
	}
	return t.Format("Jan 2, 2006 15:04")
}

// RelativeDate renders a backend timestamp as "3 hours ago" where it
// parses, falling back to the raw string.
func RelativeDate(value string) string {
	t := parseTime(value)
	if t.IsZero() {
		return value
	}
	return humanize.Time(t)
}
