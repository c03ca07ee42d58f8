// Package pet defines the pet inventory data model: records, tri-valued
// health flags, age-group buckets, and the in-memory record table the
// filter pipeline queries.
package pet

import "fmt"

// Tri is a tri-valued flag for health attributes that may be unknown.
type Tri int

const (
	TriUnknown Tri = iota
	TriTrue
	TriFalse
)

// True reports whether the flag is affirmatively set.
func (t Tri) True() bool { return t == TriTrue }

// Known reports whether the flag carries information.
func (t Tri) Known() bool { return t != TriUnknown }

// String returns the lowercase name of the flag value.
func (t Tri) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unknown"
	}
}

// AgeGroup is a coarse age bucket derived from age in months.
type AgeGroup string

const (
	AgePuppyKitten AgeGroup = "puppy_kitten"
	AgeYoung       AgeGroup = "young"
	AgeAdult       AgeGroup = "adult"
	AgeSenior      AgeGroup = "senior"
)

// ageBounds holds [lo, hi) month intervals per group. A negative hi
// means unbounded.
var ageBounds = map[AgeGroup][2]float64{
	AgePuppyKitten: {0, 12},
	AgeYoung:       {12, 36},
	AgeAdult:       {36, 84},
	AgeSenior:      {84, -1},
}

// AgeGroups lists all buckets in ascending age order.
var AgeGroups = []AgeGroup{AgePuppyKitten, AgeYoung, AgeAdult, AgeSenior}

// Bounds returns the [lo, hi) month interval for the group. hi < 0
// means no upper bound.
func (g AgeGroup) Bounds() (lo, hi float64) {
	b, ok := ageBounds[g]
	if !ok {
		return 0, -1
	}
	return b[0], b[1]
}

// Contains reports whether an age in months falls inside the bucket.
func (g AgeGroup) Contains(months float64) bool {
	lo, hi := g.Bounds()
	if months < lo {
		return false
	}
	return hi < 0 || months < hi
}

// GroupForMonths returns the bucket an exact age belongs to.
func GroupForMonths(months float64) AgeGroup {
	for _, g := range AgeGroups {
		if g.Contains(months) {
			return g
		}
	}
	return AgeAdult
}

// Record is one adoptable animal from the inventory.
//
// String fields are normalized to trimmed lowercase at load time.
// Animal constrains which breed values make sense, but that is a
// data-quality concern for the inventory producer, not enforced here.
type Record struct {
	ID     int
	Name   string
	Animal string
	Breed  string
	Gender string
	State  string

	// Color is the raw normalized color text; Colors is the parsed
	// token list (both kept: filtering matches whole words against
	// Color, scoring and display use Colors).
	Color  string
	Colors []string

	Size      string
	FurLength string
	Condition string

	// AgeMonths is valid only when HasAge is true.
	AgeMonths float64
	HasAge    bool

	// AdoptionFee is valid only when HasFee is true.
	AdoptionFee float64
	HasFee      bool

	Vaccinated Tri
	Dewormed   Tri
	Neutered   Tri
	Spayed     Tri

	Description string
	PhotoLinks  []string
	URL         string
}

// InAnyAgeGroup reports whether the record's age falls in any of the
// given buckets. Unknown age never matches.
func (r *Record) InAnyAgeGroup(groups []AgeGroup) bool {
	if !r.HasAge || len(groups) == 0 {
		return false
	}
	for _, g := range groups {
		if g.Contains(r.AgeMonths) {
			return true
		}
	}
	return false
}

// Healthy reports whether the record's condition reads as healthy.
func (r *Record) Healthy() bool {
	return r.Condition == "healthy" || r.Condition == "good"
}

// DocID returns the stable string identifier used by the lexical and
// dense indexes.
func (r *Record) DocID() string { return fmt.Sprintf("pet-%d", r.ID) }
