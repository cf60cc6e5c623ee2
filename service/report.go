package service

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
)

// FormatRatioTable renders a ratio set as a plain-text report, one block
// per category.
func FormatRatioTable(rs *dto.RatioSet) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	for _, cat := range dto.Categories {
		ratios := rs.Categories[cat]
		if len(ratios) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", categoryTitle(cat), rs.Count(cat))

		names := make([]string, 0, len(ratios))
		for name := range ratios {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", name, formatRatio(rs, cat, name, ratios[name]), rs.Interpretation[name])
		}
		fmt.Fprintln(w)
	}

	if missing := rs.ExtractedNumbers.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = string(m)
		}
		fmt.Fprintf(w, "Missing fields: %s\n", strings.Join(names, ", "))
	}

	w.Flush()
	return buf.String()
}

type ratioKey struct {
	cat  dto.Category
	name string
}

// percentRatios covers sets restored from storage, which do not carry
// their percentage flags.
var percentRatios = func() map[ratioKey]bool {
	m := make(map[ratioKey]bool)
	for _, def := range ratioDefinitions {
		if def.percent {
			m[ratioKey{def.category, def.name}] = true
		}
	}
	return m
}()

func formatRatio(rs *dto.RatioSet, cat dto.Category, name string, v *float64) string {
	if v == nil {
		return "N/A"
	}
	if rs.IsPercentage(cat, name) || percentRatios[ratioKey{cat, name}] {
		return fmt.Sprintf("%.2f%%", *v*100)
	}
	return fmt.Sprintf("%.4f", *v)
}

func categoryTitle(cat dto.Category) string {
	words := strings.Split(string(cat), "_")
	for i, w := range words {
		if w == "dupont" {
			words[i] = "DuPont"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
