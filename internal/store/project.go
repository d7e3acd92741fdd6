package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"projecthub/internal/view"
)

// Project is the singleton metadata row (id 1).
type Project struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Owner         string `json:"owner"`
	Phase         string `json:"phase"`
	TargetRelease string `json:"target_release"`
}

// Progress is the singleton development progress row (id 1). Percent is nil
// when no value has been recorded yet.
type Progress struct {
	Percent    *int   `json:"percent"`
	Phase      string `json:"phase"`
	StatusText string `json:"status_text"`
}

// Project returns the metadata row, or the zero value when the row is
// missing so a fresh database still renders.
func (s *Store) Project(ctx context.Context) (Project, error) {
	var p Project
	row := s.queryRow(ctx, "SELECT id, name, owner, phase, target_release FROM project WHERE id = 1")
	err := row.Scan(&p.ID, &p.Name, &p.Owner, &p.Phase, &p.TargetRelease)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{ID: 1}, nil
	}
	if err != nil {
		return Project{}, fmt.Errorf("load project: %w", err)
	}
	return p, nil
}

// ProjectUpdate carries a partial metadata update. Nil fields keep their
// stored value, so a name-only payload cannot blank the other columns.
type ProjectUpdate struct {
	Name          *string `json:"name"`
	Owner         *string `json:"owner"`
	Phase         *string `json:"phase"`
	TargetRelease *string `json:"target_release"`
}

// UpdateProject overwrites only the fields present in the update. A phase is
// normalized to its canonical casing when it matches a known phase.
func (s *Store) UpdateProject(ctx context.Context, u ProjectUpdate) error {
	if u.Phase != nil {
		if normalized := view.NormalizePhase(*u.Phase); normalized != "" {
			u.Phase = &normalized
		}
	}

	var sets []string
	var args []any
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, column+" = ?")
		args = append(args, strings.TrimSpace(*value))
	}
	set("name", u.Name)
	set("owner", u.Owner)
	set("phase", u.Phase)
	set("target_release", u.TargetRelease)
	if len(sets) == 0 {
		return nil
	}

	_, err := s.exec(ctx, "UPDATE project SET "+strings.Join(sets, ", ")+" WHERE id = 1", args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Progress returns the development progress row, or the zero value when the
// row is missing.
func (s *Store) Progress(ctx context.Context) (Progress, error) {
	var p Progress
	var percent sql.NullInt64
	row := s.queryRow(ctx, "SELECT percent, phase, status_text FROM development_progress WHERE id = 1")
	err := row.Scan(&percent, &p.Phase, &p.StatusText)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("load progress: %w", err)
	}
	if percent.Valid {
		v := int(percent.Int64)
		p.Percent = &v
	}
	return p, nil
}

// UpdateProgress reconciles the submitted percent and phase against each
// other, writes the progress row, and mirrors a non-empty phase onto the
// project row. The free-form status text is cleared on every write.
func (s *Store) UpdateProgress(ctx context.Context, percentRaw, phaseRaw string) (Progress, error) {
	percent, phase := view.ReconcileProgress(percentRaw, phaseRaw)

	var stored any
	if percent != nil {
		stored = *percent
	}
	if _, err := s.exec(ctx,
		"UPDATE development_progress SET percent = ?, phase = ?, status_text = '' WHERE id = 1",
		stored, phase); err != nil {
		return Progress{}, fmt.Errorf("update progress: %w", err)
	}

	if phase != "" {
		if _, err := s.exec(ctx, "UPDATE project SET phase = ? WHERE id = 1", phase); err != nil {
			return Progress{}, fmt.Errorf("mirror phase: %w", err)
		}
	}
	return Progress{Percent: percent, Phase: phase}, nil
}
