package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/pet"
	"github.com/pawmatch/pawmatch/internal/search"
)

// printResponse renders one reply as text: the active facet chips,
// the status line, then one card per result.
func printResponse(w io.Writer, resp *search.Response) {
	if chips := facetChips(resp.Facets); chips != "" {
		fmt.Fprintf(w, "Looking for: %s\n", chips)
	}
	fmt.Fprintln(w, resp.Summary)
	if resp.Relaxed && resp.Step != search.StepNoMatches {
		fmt.Fprintln(w, "(some constraints were loosened to find enough matches)")
	}
	fmt.Fprintln(w)

	for i, s := range resp.Results {
		fmt.Fprintf(w, "%d. %s\n", i+1, cardLine(s.Record))
		if extra := cardDetails(s.Record); extra != "" {
			fmt.Fprintf(w, "   %s\n", extra)
		}
	}
}

// printResponseJSON renders the reply as indented JSON for scripting.
func printResponseJSON(w io.Writer, resp *search.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// facetChips renders the active facets as bracketed chips, hard
// facets first.
func facetChips(f facet.FacetSet) string {
	var chips []string
	add := func(v string) {
		if v != "" {
			chips = append(chips, "["+v+"]")
		}
	}
	add(f.Animal)
	add(f.Breed)
	add(f.Gender)
	add(f.State)
	for _, c := range f.Colors {
		add(c)
	}
	add(f.Size)
	add(f.FurLength)
	for _, g := range f.Soft.AgeGroups {
		add(string(g))
	}
	for _, p := range []struct {
		on   bool
		name string
	}{
		{f.Soft.Vaccinated, "vaccinated"},
		{f.Soft.Dewormed, "dewormed"},
		{f.Soft.Neutered, "neutered"},
		{f.Soft.Spayed, "spayed"},
		{f.Soft.Healthy, "healthy"},
	} {
		if p.on {
			add(p.name)
		}
	}
	if f.Soft.WantsFee() {
		add(fmt.Sprintf("fee<=%.0f", f.Soft.EffectiveFeeCap()))
	}
	return strings.Join(chips, " ")
}

// cardLine is the headline of a result card.
func cardLine(r *pet.Record) string {
	name := r.Name
	if name == "" {
		name = fmt.Sprintf("Pet #%d", r.ID)
	}
	parts := []string{name}
	for _, v := range []string{r.Gender, r.Color, r.Breed, r.Animal} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// cardDetails is the secondary line: location, age, fee, health flags.
func cardDetails(r *pet.Record) string {
	var parts []string
	if r.State != "" {
		parts = append(parts, r.State)
	}
	if r.HasAge {
		parts = append(parts, fmt.Sprintf("%.0f months old", r.AgeMonths))
	}
	if r.HasFee {
		if r.AdoptionFee == 0 {
			parts = append(parts, "free adoption")
		} else {
			parts = append(parts, fmt.Sprintf("RM%.0f fee", r.AdoptionFee))
		}
	}
	var flags []string
	for _, f := range []struct {
		name string
		tri  pet.Tri
	}{
		{"vaccinated", r.Vaccinated},
		{"dewormed", r.Dewormed},
		{"neutered", r.Neutered},
		{"spayed", r.Spayed},
	} {
		if f.tri.True() {
			flags = append(flags, f.name)
		}
	}
	if len(flags) > 0 {
		parts = append(parts, strings.Join(flags, "/"))
	}
	return strings.Join(parts, " · ")
}
