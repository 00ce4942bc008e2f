// Package derive holds the pure view computations over in-memory record
// snapshots: text filtering, tag vocabularies, pipeline grouping and
// totals, and activity counts. Functions here never mutate their inputs
// and never touch a store; services feed them the latest snapshot and
// render the result.
package derive

import (
	"sort"
	"strings"
	"time"

	"github.com/flowcrm/pipeline-api/internal/domain"
)

// TagAll is the sentinel value prepended to every tag vocabulary,
// meaning "no tag filter".
const TagAll = "all"

// TextFilter returns the records whose derived text fields contain the
// query, case-insensitively. An empty query matches everything and
// returns the input order unchanged. Extractors for joined entities
// should return "" when the joined record is missing; the empty field
// simply never matches.
func TextFilter[T any](records []T, query string, fields ...func(T) string) []T {
	if query == "" {
		out := make([]T, len(records))
		copy(out, records)
		return out
	}

	needle := strings.ToLower(query)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(rec)), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// SplitTags normalizes a tag representation into a list. Tags arrive
// either as a native list already, or as a single comma-delimited string
// from a form control; blank entries are dropped and surrounding
// whitespace trimmed. Case is preserved and duplicates are not removed.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// TagVocabulary returns the sentinel "all" value followed by every
// distinct tag across the contacts, in first-seen order.
func TagVocabulary(contacts []domain.Contact) []string {
	vocab := []string{TagAll}
	seen := make(map[string]bool)
	for _, c := range contacts {
		for _, tag := range c.Tags {
			if !seen[tag] {
				seen[tag] = true
				vocab = append(vocab, tag)
			}
		}
	}
	return vocab
}

// StageGrouping partitions deals into the given stage order, preserving
// the relative order of deals within each stage. Deals whose stage is
// not in the order are excluded from every bucket; callers that care
// about strays should validate stages at the store boundary.
func StageGrouping(deals []domain.Deal, stageOrder []domain.DealStage) map[domain.DealStage][]domain.Deal {
	groups := make(map[domain.DealStage][]domain.Deal, len(stageOrder))
	for _, stage := range stageOrder {
		groups[stage] = []domain.Deal{}
	}
	for _, deal := range deals {
		if bucket, ok := groups[deal.Stage]; ok {
			groups[deal.Stage] = append(bucket, deal)
		}
	}
	return groups
}

// StageTotal sums the monetary values of a group of deals. An empty
// group totals zero.
func StageTotal(deals []domain.Deal) float64 {
	var total float64
	for _, deal := range deals {
		total += deal.Value
	}
	return total
}

// ActivityCounts summarizes an activity snapshot.
type ActivityCounts struct {
	Total     int
	Completed int
	Pending   int
	Today     int
}

// Counts returns total, completed, pending and same-calendar-day counts
// for the activities. "Today" compares creation dates against now in
// local time.
func Counts(activities []domain.Activity, now time.Time) ActivityCounts {
	counts := ActivityCounts{Total: len(activities)}
	y, m, d := now.Local().Date()
	for _, a := range activities {
		if a.Completed {
			counts.Completed++
		}
		ay, am, ad := a.CreatedAt.Local().Date()
		if ay == y && am == m && ad == d {
			counts.Today++
		}
	}
	counts.Pending = counts.Total - counts.Completed
	return counts
}

// SortByRecency returns the activities ordered by descending creation
// timestamp. The sort is stable: ties keep their original relative
// order. The input slice is not modified.
func SortByRecency(activities []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, len(activities))
	copy(out, activities)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// DealStats aggregates a (possibly filtered) deal snapshot for the
// pipeline header: total pipeline value, value of won deals, and the
// number of deals not yet closed.
func DealStats(deals []domain.Deal) domain.DealStatsDTO {
	var stats domain.DealStatsDTO
	for _, deal := range deals {
		stats.TotalValue += deal.Value
		if deal.Stage == domain.DealStageClosedWon {
			stats.WonValue += deal.Value
		}
		if !deal.Stage.IsClosed() {
			stats.ActiveCount++
		}
	}
	return stats
}

// ContactStats aggregates a contact snapshot: total contacts and the
// number of distinct non-empty companies.
func ContactStats(contacts []domain.Contact) (total, companies int) {
	seen := make(map[string]bool)
	for _, c := range contacts {
		if c.Company != "" && !seen[c.Company] {
			seen[c.Company] = true
		}
	}
	return len(contacts), len(seen)
}
