package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/ir"
)

// Translation is one cached generated program.
type Translation struct {
	Key          string
	SourceHash   string
	Target       string
	InitialCells *int
	Code         []byte
	Stats        compiler.Stats
	ToolVersion  string
	Seq          int64
}

// Build status values.
const (
	StatusOK          = "ok"           // translated and compiled
	StatusTranslated  = "translated"   // translated only (compile command)
	StatusSyntaxError = "syntax_error" // rejected by the translator
	StatusBuildFailed = "build_failed" // toolchain exited non-zero
)

// Build is one recorded build invocation.
type Build struct {
	ID             string `json:"id"`
	TranslationKey string `json:"translation_key,omitempty"`
	SourcePath     string `json:"source_path"`
	OutputPath     string `json:"output_path"`
	Target         string `json:"target"`
	Status         string `json:"status"`
	ExitCode       int    `json:"exit_code"`
	Message        string `json:"message,omitempty"`
	Seq            int64  `json:"seq"`
}

// PutTranslation stores a translation.
// Uses ON CONFLICT(key) DO NOTHING: a key always maps to the same code,
// so a second write is a no-op.
func (s *Store) PutTranslation(ctx context.Context, tr Translation) error {
	statsJSON, err := json.Marshal(tr.Stats)
	if err != nil {
		return fmt.Errorf("put translation: marshal stats: %w", err)
	}

	var cells sql.NullInt64
	if tr.InitialCells != nil {
		cells = sql.NullInt64{Int64: int64(*tr.InitialCells), Valid: true}
	}
	version := tr.ToolVersion
	if version == "" {
		version = ir.ToolVersion
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO translations
		(key, source_hash, target, initial_cells, code, stats, tool_version, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM translations))
		ON CONFLICT(key) DO NOTHING
	`,
		tr.Key,
		tr.SourceHash,
		tr.Target,
		cells,
		tr.Code,
		string(statsJSON),
		version,
	)
	if err != nil {
		return fmt.Errorf("put translation: %w", err)
	}
	return nil
}

// RecordBuild appends a build record with a fresh id and the next seq.
// Returns the stored record.
func (s *Store) RecordBuild(ctx context.Context, ids IDGenerator, b Build) (Build, error) {
	b.ID = ids.Generate()

	var key sql.NullString
	if b.TranslationKey != "" {
		key = sql.NullString{String: b.TranslationKey, Valid: true}
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO builds
		(id, translation_key, source_path, output_path, target, status, exit_code, message, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM builds))
		RETURNING seq
	`,
		b.ID,
		key,
		b.SourcePath,
		b.OutputPath,
		b.Target,
		b.Status,
		b.ExitCode,
		b.Message,
	).Scan(&b.Seq)
	if err != nil {
		return Build{}, fmt.Errorf("record build: %w", err)
	}
	return b, nil
}
