package pet

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads the pet inventory from a flat CSV file and returns the
// record table. The file must carry a header row; columns are matched
// by name and missing optional columns degrade to zero values. A
// malformed list or numeric cell is logged and treated as empty, never
// fatal.
func LoadCSV(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	records, err := parseCSV(f, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("inventory loaded", "path", path, "records", len(records))
	return NewTable(records), nil
}

func parseCSV(r io.Reader, logger *slog.Logger) ([]*Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read inventory header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	// field returns the first non-empty cell among the named columns.
	field := func(row []string, names ...string) string {
		for _, n := range names {
			if i, ok := col[n]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" && !strings.EqualFold(v, "nan") {
					return v
				}
			}
		}
		return ""
	}
	norm := func(row []string, names ...string) string {
		return strings.ToLower(field(row, names...))
	}

	var out []*Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("skipping malformed inventory row", "line", line, "error", err)
			continue
		}

		rec := &Record{
			ID:          len(out),
			Name:        field(row, "name", "pet_name"),
			Animal:      norm(row, "animal", "animal_type", "type"),
			Breed:       norm(row, "breed"),
			Gender:      norm(row, "gender", "sex"),
			State:       norm(row, "state", "location"),
			Color:       norm(row, "color", "colour"),
			Size:        norm(row, "size"),
			FurLength:   norm(row, "fur_length", "furlength", "fur"),
			Condition:   norm(row, "condition", "health"),
			Description: field(row, "doc", "description_clean", "description"),
			URL:         field(row, "url", "listing_url"),
			Vaccinated:  CoerceTri(field(row, "vaccinated", "is_vaccinated", "vaccination", "vaccine")),
			Dewormed:    CoerceTri(field(row, "dewormed", "is_dewormed", "deworming", "wormed")),
			Neutered:    CoerceTri(field(row, "neutered", "is_neutered", "neuter", "fixed", "castrated")),
			Spayed:      CoerceTri(field(row, "spayed", "is_spayed", "spay", "sterilized", "sterilised")),
		}
		if id := field(row, "id", "pet_id"); id != "" {
			if n, err := strconv.Atoi(id); err == nil {
				rec.ID = n
			}
		}
		if v := field(row, "age_months", "age_month", "age"); v != "" {
			if m, err := strconv.ParseFloat(v, 64); err == nil {
				rec.AgeMonths = m
				rec.HasAge = true
			} else {
				logger.Warn("unparseable age cell", "line", line, "value", v)
			}
		}
		if v := field(row, "adoption_fee", "fee"); v != "" {
			if fee, err := strconv.ParseFloat(v, 64); err == nil {
				rec.AdoptionFee = fee
				rec.HasFee = true
			} else {
				logger.Warn("unparseable fee cell", "line", line, "value", v)
			}
		}

		if cell := field(row, "colors", "colors_canonical"); cell != "" {
			rec.Colors = lowerAll(ParseListCell(cell))
		} else if rec.Color != "" {
			rec.Colors = lowerAll(ParseListCell(rec.Color))
		} else {
			rec.Colors = []string{}
		}
		if rec.Color == "" && len(rec.Colors) > 0 {
			rec.Color = strings.Join(rec.Colors, " ")
		}
		rec.PhotoLinks = ParseListCell(field(row, "photo_links", "photos"))

		resolveHealthFlags(rec)
		out = append(out, rec)
	}
	return out, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
