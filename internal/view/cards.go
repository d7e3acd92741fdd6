package view

import (
	"sort"

	"projecthub/internal/entity"
)

// OrderCardKeys returns the card keys in display order: position ascending,
// pinned cards hoisted to the front, and any canonical key missing from the
// persisted state appended at the end.
func OrderCardKeys(state []entity.CardState) []string {
	ordered := make([]entity.CardState, len(state))
	copy(ordered, state)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var pinned, unpinned []string
	seen := make(map[string]bool, len(ordered))
	for _, card := range ordered {
		seen[card.Key] = true
		if card.Pinned {
			pinned = append(pinned, card.Key)
		} else {
			unpinned = append(unpinned, card.Key)
		}
	}
	for _, key := range entity.CardKeys {
		if !seen[key] {
			unpinned = append(unpinned, key)
		}
	}
	return append(pinned, unpinned...)
}

// Section is one table-rendered entity card.
type Section struct {
	Key    string            `json:"key"`
	Title  string            `json:"title"`
	Fields []string          `json:"fields"`
	Labels map[string]string `json:"labels"`
	Rows   []map[string]any  `json:"rows"`
}

// sectionKeys are the entities rendered as plain tables; project, tasks and
// the development log have dedicated cards.
var sectionKeys = []string{"bom", "documentation", "system_status", "risks"}

// BuildSections assembles the table sections from the already-fetched rows.
// system_status is truncated to its first row, it is a single-row card in
// practice.
func BuildSections(rows map[string][]map[string]any) []Section {
	sections := make([]Section, 0, len(sectionKeys))
	for _, key := range sectionKeys {
		def := entity.Definitions[key]
		fields := make([]string, 0, len(def.Fields))
		labels := make(map[string]string, len(def.Fields))
		for _, field := range def.Fields {
			fields = append(fields, field.Name)
			labels[field.Name] = field.Label
		}
		entityRows := rows[key]
		if key == "system_status" && len(entityRows) > 1 {
			entityRows = entityRows[:1]
		}
		sections = append(sections, Section{
			Key:    key,
			Title:  def.Label,
			Fields: fields,
			Labels: labels,
			Rows:   entityRows,
		})
	}
	return sections
}

// FilterByDocType returns the documentation rows matching the folded doc
// type key, or all rows for the empty key.
func FilterByDocType(rows []map[string]any, key string) []map[string]any {
	if key == "" {
		return rows
	}
	filtered := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if NormalizeDocTypeKey(rowString(row, "doc_type")) == key {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
