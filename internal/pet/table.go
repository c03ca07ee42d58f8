package pet

import (
	"math/rand"
	"regexp"
	"sync"
)

// Predicate is a typed row filter over the record table.
type Predicate func(*Record) bool

// AnimalIs matches records of the given animal kind exactly.
func AnimalIs(animal string) Predicate {
	return func(r *Record) bool { return r.Animal == animal }
}

// BreedContains matches the breed as a whole word inside the record's
// breed text ("poodle" matches "toy poodle" but not "poodlex").
func BreedContains(breed string) Predicate {
	re := wholeWord(breed)
	return func(r *Record) bool { return re.MatchString(r.Breed) }
}

// BreedIs matches the breed text exactly (strict mode).
func BreedIs(breed string) Predicate {
	return func(r *Record) bool { return r.Breed == breed }
}

// GenderIs matches the record gender exactly.
func GenderIs(gender string) Predicate {
	return func(r *Record) bool { return r.Gender == gender }
}

// StateIs matches the record state exactly.
func StateIs(state string) Predicate {
	return func(r *Record) bool { return r.State == state }
}

// ColorHasAny matches when any requested color appears as a whole word
// in the record's color text.
func ColorHasAny(colors []string) Predicate {
	res := make([]*regexp.Regexp, 0, len(colors))
	for _, c := range colors {
		res = append(res, wholeWord(c))
	}
	return func(r *Record) bool {
		for _, re := range res {
			if re.MatchString(r.Color) {
				return true
			}
		}
		return false
	}
}

// InAgeGroups matches records whose known age falls in any bucket.
func InAgeGroups(groups []AgeGroup) Predicate {
	return func(r *Record) bool { return r.InAnyAgeGroup(groups) }
}

func wholeWord(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}

// Table is the in-memory, read-only record store. It is loaded once at
// start-up; queries never mutate it.
type Table struct {
	records []*Record

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTable wraps a record slice. Order is preserved and significant:
// ranking ties resolve by table order.
func NewTable(records []*Record) *Table {
	return &Table{records: records}
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// All returns every record in table order. Callers must not mutate.
func (t *Table) All() []*Record { return t.records }

// Filter returns records satisfying every predicate, in table order.
func (t *Table) Filter(preds ...Predicate) []*Record {
	return FilterRecords(t.records, preds...)
}

// FilterRecords applies predicates to an arbitrary record slice,
// preserving order.
func FilterRecords(records []*Record, preds ...Predicate) []*Record {
	out := make([]*Record, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Sample returns up to n records drawn without replacement. Used for
// the no-constraint query path.
func (t *Table) Sample(n int) []*Record {
	if n >= len(t.records) {
		out := make([]*Record, len(t.records))
		copy(out, t.records)
		return out
	}
	t.mu.Lock()
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	perm := t.rng.Perm(len(t.records))
	t.mu.Unlock()

	out := make([]*Record, 0, n)
	for _, i := range perm[:n] {
		out = append(out, t.records[i])
	}
	return out
}
