package entity

import (
	"testing"
	"time"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		wantErr bool
	}{
		{name: "known collection entity", entity: "bom", wantErr: false},
		{name: "development log", entity: "development_log", wantErr: false},
		{name: "project singleton is not a collection", entity: "project", wantErr: true},
		{name: "unknown entity", entity: "users", wantErr: true},
		{name: "sql injection attempt", entity: "tasks; DROP TABLE tasks", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.entity)
			if (err != nil) != tt.wantErr {
				t.Errorf("Lookup(%q) error = %v, wantErr %v", tt.entity, err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		payload map[string]any
		want    map[string]string
	}{
		{
			name:   "trims strings and drops unknown fields",
			entity: "tasks",
			payload: map[string]any{
				"task":     "  Wire the PCB  ",
				"due_date": "2026-09-01",
				"priority": "High",
				"status":   "In progress",
				"evil":     "ignored",
			},
			want: map[string]string{
				"task":     "Wire the PCB",
				"due_date": "2026-09-01",
				"priority": "High",
				"status":   "In progress",
			},
		},
		{
			name:    "missing fields become empty strings",
			entity:  "risks",
			payload: map[string]any{"risk": "Supply delay"},
			want: map[string]string{
				"risk":     "Supply delay",
				"impact":   "",
				"solution": "",
				"status":   "",
			},
		},
		{
			name:   "is_online truthy values coerce to 1",
			entity: "system_status",
			payload: map[string]any{
				"is_online":          "Yes",
				"reason":             "",
				"estimated_downtime": "",
			},
			want: map[string]string{
				"is_online":          "1",
				"reason":             "",
				"estimated_downtime": "",
			},
		},
		{
			name:   "is_online anything else coerces to 0",
			entity: "system_status",
			payload: map[string]any{
				"is_online": "offline",
			},
			want: map[string]string{
				"is_online":          "0",
				"reason":             "",
				"estimated_downtime": "",
			},
		},
		{
			name:   "numbers stringify without float noise",
			entity: "bom",
			payload: map[string]any{
				"item":      "M3 screw",
				"qty":       float64(40),
				"unit_cost": 0.15,
			},
			want: map[string]string{
				"item":           "M3 screw",
				"part_number":    "",
				"qty":            "40",
				"unit_cost":      "0.15",
				"supplier":       "",
				"lead_time_days": "",
				"status":         "",
				"link":           "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.entity, tt.payload)
			for k, want := range tt.want {
				if got[k] != want {
					t.Errorf("Sanitize()[%q] = %q, want %q", k, got[k], want)
				}
			}
			def := Definitions[tt.entity]
			if len(got) != len(def.Fields) {
				t.Errorf("Sanitize() returned %d fields, want %d", len(got), len(def.Fields))
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		entity string
		field  string
		want   string
	}{
		{name: "new log entry defaults to today", entity: "development_log", field: "log_date", want: "2026-03-14"},
		{name: "new task defaults to medium priority", entity: "tasks", field: "priority", want: "Medium"},
		{name: "new task defaults to not started", entity: "tasks", field: "status", want: "Not started"},
		{name: "new documentation defaults to not started", entity: "documentation", field: "status", want: "Not started"},
		{name: "new bom row defaults to not purchased", entity: "bom", field: "status", want: "Not yet purchased"},
		{name: "new risk defaults to ongoing", entity: "risks", field: "status", want: "Ongoing"},
		{name: "system status defaults to online", entity: "system_status", field: "is_online", want: "1"},
		{name: "other fields default empty", entity: "tasks", field: "task", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := Defaults(tt.entity, now)
			if values[tt.field] != tt.want {
				t.Errorf("Defaults(%q)[%q] = %q, want %q", tt.entity, tt.field, values[tt.field], tt.want)
			}
		})
	}
}
