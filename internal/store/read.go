package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// GetTranslation returns the cached translation for key.
// found is false when there is none.
func (s *Store) GetTranslation(ctx context.Context, key string) (tr Translation, found bool, err error) {
	var (
		cells     sql.NullInt64
		statsJSON string
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT key, source_hash, target, initial_cells, code, stats, tool_version, seq
		FROM translations
		WHERE key = ?
	`, key).Scan(&tr.Key, &tr.SourceHash, &tr.Target, &cells, &tr.Code, &statsJSON, &tr.ToolVersion, &tr.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Translation{}, false, nil
	}
	if err != nil {
		return Translation{}, false, fmt.Errorf("get translation: %w", err)
	}

	if cells.Valid {
		n := int(cells.Int64)
		tr.InitialCells = &n
	}
	if err := json.Unmarshal([]byte(statsJSON), &tr.Stats); err != nil {
		return Translation{}, false, fmt.Errorf("get translation: unmarshal stats: %w", err)
	}
	return tr, true, nil
}

// ListBuilds returns the most recent builds, newest first.
// limit <= 0 returns all builds.
//
// Returns an empty slice (not nil) if no builds exist.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]Build, error) {
	query := `
		SELECT id, COALESCE(translation_key, ''), source_path, output_path, target, status, exit_code, message, seq
		FROM builds
		ORDER BY seq DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.TranslationKey, &b.SourcePath, &b.OutputPath, &b.Target, &b.Status, &b.ExitCode, &b.Message, &b.Seq); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}
