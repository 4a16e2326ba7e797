package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ringside/wrestling-pulse/internal/models"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

// RosterStore keeps tracked wrestlers in SQLite
type RosterStore struct {
	db *sql.DB
}

// NewRosterStore opens (or creates) the roster database at path
func NewRosterStore(path string) (*RosterStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open roster database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	store := &RosterStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init roster schema: %w", err)
	}

	return store, nil
}

// Close closes the database
func (s *RosterStore) Close() error {
	return s.db.Close()
}

func (s *RosterStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS wrestlers (
		name TEXT PRIMARY KEY COLLATE NOCASE,
		promotion TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_wrestlers_promotion ON wrestlers(promotion);
	`)
	return err
}

// Upsert inserts w or updates the entry with the same name
func (s *RosterStore) Upsert(ctx context.Context, w models.Wrestler) error {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return fmt.Errorf("wrestler name is required")
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO wrestlers (name, promotion, active, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		promotion = excluded.promotion,
		active = excluded.active,
		updated_at = excluded.updated_at
	`, name, w.Promotion, w.Active, w.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert wrestler %s: %w", name, err)
	}
	return nil
}

// Wrestlers returns the active roster ordered by name
func (s *RosterStore) Wrestlers(ctx context.Context) ([]models.Wrestler, error) {
	return s.query(ctx, `
	SELECT name, promotion, active, updated_at FROM wrestlers
	WHERE active = 1 ORDER BY name COLLATE NOCASE`)
}

// Search returns wrestlers whose name contains q, case-insensitively
func (s *RosterStore) Search(ctx context.Context, q string) ([]models.Wrestler, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(q)) + "%"
	return s.query(ctx, `
	SELECT name, promotion, active, updated_at FROM wrestlers
	WHERE name LIKE ? ESCAPE '\' ORDER BY name COLLATE NOCASE`, pattern)
}

// Names returns the active wrestler names
func (s *RosterStore) Names(ctx context.Context) ([]string, error) {
	wrestlers, err := s.Wrestlers(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(wrestlers))
	for _, w := range wrestlers {
		names = append(names, w.Name)
	}
	return names, nil
}

// Seed inserts names that are not stored yet as active entries
func (s *RosterStore) Seed(ctx context.Context, names []string, promotionOf func(string) string) error {
	now := time.Now().UTC()
	for _, name := range names {
		promotion := ""
		if promotionOf != nil {
			promotion = promotionOf(name)
		}
		_, err := s.db.ExecContext(ctx, `
		INSERT INTO wrestlers (name, promotion, active, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(name) DO NOTHING
		`, strings.TrimSpace(name), promotion, now)
		if err != nil {
			return fmt.Errorf("seed wrestler %s: %w", name, err)
		}
	}
	return nil
}

type rosterFile struct {
	Wrestlers []struct {
		Name      string `yaml:"name"`
		Promotion string `yaml:"promotion"`
		Active    *bool  `yaml:"active"`
	} `yaml:"wrestlers"`
}

// ImportYAML upserts every wrestler listed in a roster file:
//
//	wrestlers:
//	  - name: Cody Rhodes
//	    promotion: WWE
//	  - name: Bray Wyatt
//	    active: false
//
// Entries without an active flag are active.
func (s *RosterStore) ImportYAML(ctx context.Context, r io.Reader) (int, error) {
	var file rosterFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return 0, fmt.Errorf("decode roster file: %w", err)
	}

	for i, entry := range file.Wrestlers {
		active := entry.Active == nil || *entry.Active
		w := models.Wrestler{Name: entry.Name, Promotion: entry.Promotion, Active: active}
		if err := s.Upsert(ctx, w); err != nil {
			return i, err
		}
	}
	return len(file.Wrestlers), nil
}

func (s *RosterStore) query(ctx context.Context, query string, args ...any) ([]models.Wrestler, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	var out []models.Wrestler
	for rows.Next() {
		var w models.Wrestler
		if err := rows.Scan(&w.Name, &w.Promotion, &w.Active, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wrestler: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
