// Package entity holds the static schema for every record type the hub
// tracks. Handlers and the store never accept column names from the wire;
// they always go through these definitions.
package entity

import (
	"fmt"
	"strings"
	"time"
)

// Project lifecycle phases, in order.
var Phases = []string{"Concept", "Developing", "Prototype", "Testing", "Complete"}

// PhasePercent maps each phase to its canonical percent-complete value.
var PhasePercent = map[string]int{
	"Concept":    0,
	"Developing": 25,
	"Prototype":  50,
	"Testing":    75,
	"Complete":   100,
}

// CardKeys is the canonical dashboard card order used to seed card_state.
var CardKeys = []string{
	"development_progress",
	"bom",
	"documentation",
	"system_status",
	"tasks",
	"risks",
}

// Collections lists the collection entities in dashboard render order.
var Collections = []string{"bom", "documentation", "system_status", "tasks", "risks", "development_log"}

// CardState is the persisted display state of one dashboard card.
type CardState struct {
	Key      string `json:"key"`
	Position int    `json:"position"`
	Pinned   bool   `json:"pinned"`
}

// ValidCardKey reports whether key names a known dashboard card.
func ValidCardKey(key string) bool {
	for _, k := range CardKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Field describes one column of an entity as it appears in forms.
type Field struct {
	Name      string
	Label     string
	InputType string // text, number, date
	Widget    string // "" or "textarea"
	Step      string // number input step, e.g. "1" or "0.01"
}

// Definition describes one entity: its display label and editable fields.
type Definition struct {
	Label  string
	Fields []Field
}

// Definitions indexes every entity by its table name. The "project"
// singleton is included for form rendering but is not a collection entity.
var Definitions = map[string]Definition{
	"project": {
		Label: "Project Metadata",
		Fields: []Field{
			{Name: "name", Label: "Project name", InputType: "text"},
		},
	},
	"bom": {
		Label: "Bill of Materials",
		Fields: []Field{
			{Name: "item", Label: "Item", InputType: "text"},
			{Name: "part_number", Label: "Part #", InputType: "text"},
			{Name: "qty", Label: "Qty", InputType: "number", Step: "1"},
			{Name: "unit_cost", Label: "Unit cost", InputType: "number", Step: "0.01"},
			{Name: "supplier", Label: "Supplier", InputType: "text"},
			{Name: "lead_time_days", Label: "Lead time (days)", InputType: "number", Step: "1"},
			{Name: "status", Label: "Status", InputType: "text"},
			{Name: "link", Label: "Link", InputType: "text"},
		},
	},
	"documentation": {
		Label: "Documentation",
		Fields: []Field{
			{Name: "title", Label: "Title", InputType: "text"},
			{Name: "doc_type", Label: "Type", InputType: "text"},
			{Name: "location", Label: "Location", InputType: "text"},
			{Name: "status", Label: "Status", InputType: "text"},
		},
	},
	"system_status": {
		Label: "System Status",
		Fields: []Field{
			{Name: "is_online", Label: "Status", InputType: "text"},
			{Name: "reason", Label: "Reason / notes", Widget: "textarea"},
			{Name: "estimated_downtime", Label: "Estimated downtime", InputType: "date"},
		},
	},
	"tasks": {
		Label: "Tasks",
		Fields: []Field{
			{Name: "task", Label: "Task", InputType: "text"},
			{Name: "due_date", Label: "Due date", InputType: "date"},
			{Name: "priority", Label: "Priority", InputType: "text"},
			{Name: "status", Label: "Status", InputType: "text"},
		},
	},
	"risks": {
		Label: "Risks",
		Fields: []Field{
			{Name: "risk", Label: "Risk", InputType: "text"},
			{Name: "impact", Label: "Impact", Widget: "textarea"},
			{Name: "solution", Label: "Solution", Widget: "textarea"},
			{Name: "status", Label: "Status", InputType: "text"},
		},
	},
	"development_log": {
		Label: "Development Log",
		Fields: []Field{
			{Name: "log_date", Label: "Date", InputType: "date"},
			{Name: "summary", Label: "Summary", InputType: "text"},
			{Name: "details", Label: "Details", Widget: "textarea"},
		},
	},
}

// Lookup returns the definition for a collection entity. The project
// singleton and unknown names are rejected so route parameters can never
// reach the store as table names.
func Lookup(name string) (Definition, error) {
	if name == "project" {
		return Definition{}, fmt.Errorf("unknown entity: %s", name)
	}
	def, ok := Definitions[name]
	if !ok {
		return Definition{}, fmt.Errorf("unknown entity: %s", name)
	}
	return def, nil
}

// Sanitize maps a raw payload onto the entity's field schema. Unknown keys
// are dropped, values are stringified and trimmed, and is_online is coerced
// to 0/1.
func Sanitize(name string, payload map[string]any) map[string]string {
	def := Definitions[name]
	data := make(map[string]string, len(def.Fields))
	for _, field := range def.Fields {
		raw, ok := payload[field.Name]
		if field.Name == "is_online" {
			data[field.Name] = coerceBool(raw)
			continue
		}
		if !ok || raw == nil {
			data[field.Name] = ""
			continue
		}
		data[field.Name] = strings.TrimSpace(stringify(raw))
	}
	return data
}

// Defaults returns the initial form values for a new record of the entity.
func Defaults(name string, now time.Time) map[string]string {
	def := Definitions[name]
	values := make(map[string]string, len(def.Fields))
	for _, field := range def.Fields {
		values[field.Name] = ""
	}
	switch name {
	case "development_log":
		values["log_date"] = now.Format("2006-01-02")
	case "tasks":
		values["priority"] = "Medium"
		values["status"] = "Not started"
	case "documentation":
		values["status"] = "Not started"
	case "bom":
		values["status"] = "Not yet purchased"
	case "risks":
		values["status"] = "Ongoing"
	case "system_status":
		values["is_online"] = "1"
	}
	return values
}

func coerceBool(raw any) string {
	switch strings.ToLower(strings.TrimSpace(stringify(raw))) {
	case "1", "true", "yes", "on":
		return "1"
	default:
		return "0"
	}
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		// JSON numbers decode as float64; keep integers unpadded.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
