// Package view computes the derived values the dashboard renders: phase and
// percent reconciliation, pill styling classes, the weekly task layout, and
// card ordering. Everything in here is pure.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"projecthub/internal/entity"
)

// ParsePercent parses a percent value and clamps it to [0, 100]. It returns
// nil when the value is missing or not numeric.
func ParsePercent(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	pct = math.Max(0, math.Min(100, pct))
	return &pct
}

// NormalizePhase matches a value case-insensitively against the known phases
// and returns the canonical spelling, or "" when it matches none.
func NormalizePhase(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return ""
	}
	for _, phase := range entity.Phases {
		if text == strings.ToLower(phase) {
			return phase
		}
	}
	return ""
}

// PhaseFromPercent returns the phase whose canonical percent is nearest to
// the given value.
func PhaseFromPercent(percent *float64) string {
	if percent == nil {
		return ""
	}
	best := ""
	bestDist := math.Inf(1)
	for _, phase := range entity.Phases {
		dist := math.Abs(*percent - float64(entity.PhasePercent[phase]))
		if dist < bestDist {
			best = phase
			bestDist = dist
		}
	}
	return best
}

// DevelopmentView is the reconciled progress state shown in the hero card.
type DevelopmentView struct {
	PercentValue int    `json:"percent_value"`
	PercentLabel string `json:"percent_label"`
	Phase        string `json:"phase"`
}

// BuildDevelopmentView reconciles the progress row with the project phase:
// the progress phase wins, falling back to the project phase; a missing
// percent is filled from the phase's canonical value; a missing phase is
// derived from the percent.
func BuildDevelopmentView(percentRaw, progressPhase, projectPhase string) DevelopmentView {
	phase := NormalizePhase(progressPhase)
	if phase == "" {
		phase = NormalizePhase(projectPhase)
	}
	percent := ParsePercent(percentRaw)
	if percent == nil {
		if canonical, ok := entity.PhasePercent[phase]; ok && phase != "" {
			v := float64(canonical)
			percent = &v
		}
	}
	if percent != nil && phase == "" {
		phase = PhaseFromPercent(percent)
	}

	v := DevelopmentView{Phase: phase}
	if percent != nil {
		v.PercentValue = int(math.Round(*percent))
		v.PercentLabel = fmt.Sprintf("%d%%", v.PercentValue)
	}
	return v
}

// ReconcileProgress applies the same rules for writes: it returns the percent
// (nil when unset) and canonical phase to persist.
func ReconcileProgress(percentRaw, phaseRaw string) (*int, string) {
	percent := ParsePercent(percentRaw)
	phase := NormalizePhase(phaseRaw)
	if percent == nil {
		if canonical, ok := entity.PhasePercent[phase]; ok && phase != "" {
			v := float64(canonical)
			percent = &v
		}
	}
	if percent != nil && phase == "" {
		phase = PhaseFromPercent(percent)
	}
	if percent == nil {
		return nil, phase
	}
	rounded := int(math.Round(*percent))
	return &rounded, phase
}

// normalizeStatusKey folds a status value for comparison: lowercase with
// spaces and hyphens stripped.
func normalizeStatusKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "")
	return strings.ReplaceAll(key, "-", "")
}

// NormalizeDocTypeKey folds a documentation type for filtering.
func NormalizeDocTypeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// PriorityClass maps a task priority onto a pill class.
func PriorityClass(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return "pill-danger"
	case "low":
		return "pill-success"
	default:
		return "pill-warning"
	}
}

// TaskStatusClass maps a task status onto a pill class.
func TaskStatusClass(raw string) string {
	switch normalizeStatusKey(raw) {
	case "done", "complete", "completed":
		return "pill-success"
	case "inprogress":
		return "pill-info"
	default:
		return "pill-muted"
	}
}

// BomStatusClass maps a bill-of-materials status onto a pill class.
func BomStatusClass(raw string) string {
	switch normalizeStatusKey(raw) {
	case "purchased", "purchase", "bought":
		return "pill-info"
	case "nonpurchased", "notpurchased", "notyetpurchased", "unpurchased", "notbought":
		return "pill-danger"
	default:
		return "pill-muted"
	}
}

// RiskStatusClass maps a risk status onto a pill class.
func RiskStatusClass(raw string) string {
	switch normalizeStatusKey(raw) {
	case "ongoing", "inprogress":
		return "pill-danger"
	case "resolved":
		return "pill-success"
	default:
		return "pill-muted"
	}
}

// OnlineClass maps the system_status online flag onto a pill class.
func OnlineClass(raw string) string {
	if IsOnline(raw) {
		return "pill-success"
	}
	return "pill-danger"
}

// IsOnline reports whether an is_online value counts as online.
func IsOnline(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on":
		return true
	default:
		return false
	}
}
