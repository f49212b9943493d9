package tracking

import "sync"

// recentLimit caps the per-identity recent-searches list.
const recentLimit = 3

// RecentSearches keeps a bounded most-recent-first list of case IDs each
// identity has successfully looked up. A repeated lookup re-promotes the
// ID to the front rather than adding a duplicate.
type RecentSearches struct {
	mu      sync.Mutex
	byIdent map[string][]string
}

// NewRecentSearches creates an empty RecentSearches tracker.
func NewRecentSearches() *RecentSearches {
	return &RecentSearches{byIdent: make(map[string][]string)}
}

// Record notes that identity looked up caseID.
func (r *RecentSearches) Record(identity, caseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.byIdent[identity]
	out := make([]string, 0, recentLimit)
	out = append(out, caseID)
	for _, id := range existing {
		if id == caseID {
			continue
		}
		out = append(out, id)
		if len(out) == recentLimit {
			break
		}
	}
	r.byIdent[identity] = out
}

// For returns identity's recent case IDs, most recent first.
func (r *RecentSearches) For(identity string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.byIdent[identity]...)
}
