package tasks

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type titleSource []Task

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// applyFilter filtra por completed y, si hay query, ordena por score fuzzy del título.
func applyFilter(items []Task, f ListFilter) []Task {
	out := items
	if f.Completed != nil {
		out = make([]Task, 0, len(items))
		for _, t := range items {
			if t.Completed == *f.Completed {
				out = append(out, t)
			}
		}
	}

	q := strings.TrimSpace(f.Query)
	if q == "" {
		return out
	}

	matches := fuzzy.FindFrom(q, titleSource(out))
	ranked := make([]Task, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, out[m.Index])
	}
	return ranked
}
