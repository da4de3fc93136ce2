package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no build matches a lookup.
var ErrNotFound = errors.New("build not found")

// Build is one recorded compilation.
type Build struct {
	Seq        int64  `json:"seq"`
	ID         string `json:"id"`
	Device     string `json:"device"`
	ConfigPath string `json:"config_path"`
	OutputDir  string `json:"output_dir"`
	Digest     string `json:"digest"`
	Points     int    `json:"points"`
	Fragments  int    `json:"fragments"`
	Classes    int    `json:"classes"`
}

const buildColumns = `seq, id, device, config_path, output_dir, digest, points, fragments, classes`

// Record appends b to the history and returns it with Seq and ID filled in.
// A random UUID is assigned when b.ID is empty.
func (s *Store) Record(ctx context.Context, b Build) (Build, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Build{}, fmt.Errorf("record build: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&b.Seq); err != nil {
		return Build{}, fmt.Errorf("record build: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds (`+buildColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.Seq,
		b.ID,
		b.Device,
		b.ConfigPath,
		b.OutputDir,
		b.Digest,
		b.Points,
		b.Fragments,
		b.Classes,
	)
	if err != nil {
		return Build{}, fmt.Errorf("record build: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Build{}, fmt.Errorf("record build: %w", err)
	}
	return b, nil
}

// List returns up to limit builds, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Build, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY seq DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("list builds: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	return builds, nil
}

// Latest returns the most recent build of device, or ErrNotFound.
func (s *Store) Latest(ctx context.Context, device string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE device = ?
		ORDER BY seq DESC
		LIMIT 1
	`, device)

	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("%w: %s", ErrNotFound, device)
	}
	if err != nil {
		return Build{}, fmt.Errorf("latest build: %w", err)
	}
	return b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (Build, error) {
	var b Build
	err := row.Scan(
		&b.Seq,
		&b.ID,
		&b.Device,
		&b.ConfigPath,
		&b.OutputDir,
		&b.Digest,
		&b.Points,
		&b.Fragments,
		&b.Classes,
	)
	return b, err
}
