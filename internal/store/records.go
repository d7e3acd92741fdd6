package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"projecthub/internal/entity"
)

// listOrder holds the per-entity ORDER BY clause. The development log reads
// newest entry first by date; everything else by insertion order, newest
// first.
func listOrder(name string) string {
	if name == "development_log" {
		return "ORDER BY log_date DESC, id DESC"
	}
	return "ORDER BY id DESC"
}

// List returns every row of a collection entity. The entity name must have
// passed entity.Lookup; it is interpolated into the query as a table name.
func (s *Store) List(ctx context.Context, name string) ([]map[string]any, error) {
	rows, err := s.query(ctx, fmt.Sprintf("SELECT * FROM %s %s", name, listOrder(name)))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return out, nil
}

// Insert adds a row from sanitized field values and returns its id.
// Documentation rows are stamped with the write date.
func (s *Store) Insert(ctx context.Context, name string, data map[string]string, now time.Time) (int64, error) {
	def := entity.Definitions[name]

	columns := make([]string, 0, len(def.Fields)+1)
	holders := make([]string, 0, len(def.Fields)+1)
	args := make([]any, 0, len(def.Fields)+1)
	for _, field := range def.Fields {
		columns = append(columns, field.Name)
		holders = append(holders, "?")
		args = append(args, columnValue(field, data[field.Name]))
	}
	if name == "documentation" {
		columns = append(columns, "last_updated")
		holders = append(holders, "?")
		args = append(args, now.Format("2006-01-02"))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(columns, ", "), strings.Join(holders, ", "))

	if s.driver == driverPostgres {
		var id int64
		err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", name, err)
		}
		return id, nil
	}

	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", name, err)
	}
	return id, nil
}

// Update overwrites every editable field of one row. ErrNotFound is returned
// when the id does not exist.
func (s *Store) Update(ctx context.Context, name string, id int64, data map[string]string, now time.Time) error {
	def := entity.Definitions[name]

	sets := make([]string, 0, len(def.Fields)+1)
	args := make([]any, 0, len(def.Fields)+2)
	for _, field := range def.Fields {
		sets = append(sets, field.Name+" = ?")
		args = append(args, columnValue(field, data[field.Name]))
	}
	if name == "documentation" {
		sets = append(sets, "last_updated = ?")
		args = append(args, now.Format("2006-01-02"))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", name, strings.Join(sets, ", "))
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s/%d: %w", name, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%d: %w", name, id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one row. ErrNotFound is returned when the id does not
// exist.
func (s *Store) Delete(ctx context.Context, name string, id int64) error {
	res, err := s.exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", name), id)
	if err != nil {
		return fmt.Errorf("delete %s/%d: %w", name, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%d: %w", name, id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns the row count of every collection entity.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(entity.Collections))
	for _, name := range entity.Collections {
		var n int
		row := s.queryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", name))
		if err := row.Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}

// columnValue converts a sanitized string to the column's storage type.
// Empty numeric fields become NULL; unparseable values pass through for the
// database to reject.
func columnValue(field entity.Field, value string) any {
	if field.Name == "is_online" {
		if value == "1" {
			return 1
		}
		return 0
	}
	if field.InputType != "number" {
		return value
	}
	if value == "" {
		return nil
	}
	if field.Step == "0.01" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return value
}
