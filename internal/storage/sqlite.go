package storage

import (
	"database/sql"
	"fmt"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
	_ "modernc.org/sqlite"
)

// DB wraps the workspace's ephemeral SQLite cache. The JSONL files are the
// source of truth; the cache is rebuilt from them and can be deleted at any
// time.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist. The edges
// primary key is the raw identity tuple, matching the in-memory store.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS artifacts (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			display_name TEXT,
			content TEXT,
			content_preview TEXT,
			prerequisites_preview TEXT,
			proof TEXT,
			position TEXT,
			x REAL,
			y REAL
		);

		CREATE INDEX IF NOT EXISTS idx_artifacts_type ON artifacts(type);

		CREATE TABLE IF NOT EXISTS edges (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			dependency_type TEXT NOT NULL DEFAULT '',
			reference_type TEXT NOT NULL DEFAULT '',
			raw_type TEXT NOT NULL DEFAULT '',
			context TEXT,
			PRIMARY KEY (source, target, dependency_type, reference_type, raw_type)
		);

		CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
		CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(dependency_type);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the cache and rebuilds it from the workspace's
// artifact and edge files. Returns the number of artifacts and edges loaded.
func (d *DB) RebuildFromJSONL(artifactsPath, edgesPath string) (int, int, error) {
	artifacts, err := ReadAllArtifacts(artifactsPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading artifacts JSONL: %w", err)
	}
	edges, err := ReadAllEdges(edgesPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading edges JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("starting rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM artifacts"); err != nil {
		return 0, 0, fmt.Errorf("clearing artifacts table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM edges"); err != nil {
		return 0, 0, fmt.Errorf("clearing edges table: %w", err)
	}

	insArt, err := tx.Prepare(`
		INSERT OR REPLACE INTO artifacts
			(id, type, display_name, content, content_preview,
			 prerequisites_preview, proof, position, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing artifacts insert: %w", err)
	}
	defer insArt.Close()

	for _, a := range artifacts {
		_, err := insArt.Exec(a.ID, a.NormalizedType(), a.DisplayName, a.Content,
			a.ContentPreview, a.PrerequisitesPreview, a.Proof, a.Position, a.X, a.Y)
		if err != nil {
			return 0, 0, fmt.Errorf("inserting artifact %s: %w", a.ID, err)
		}
	}

	insEdge, err := tx.Prepare(`
		INSERT OR IGNORE INTO edges
			(source, target, dependency_type, reference_type, raw_type, context)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing edges insert: %w", err)
	}
	defer insEdge.Close()

	for _, r := range edges {
		_, err := insEdge.Exec(r.Source, r.Target, r.DependencyType,
			r.ReferenceType, r.RawType, r.Context)
		if err != nil {
			return 0, 0, fmt.Errorf("inserting edge %s: %w", r.StoreKey(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(artifacts), len(edges), nil
}

// GetArtifact retrieves one artifact by id, or nil if absent.
func (d *DB) GetArtifact(id string) (*artifact.Artifact, error) {
	row := d.db.QueryRow(`
		SELECT id, type, display_name, content, content_preview,
		       prerequisites_preview, proof, position, x, y
		FROM artifacts WHERE id = ?
	`, id)

	var a artifact.Artifact
	err := row.Scan(&a.ID, &a.Type, &a.DisplayName, &a.Content, &a.ContentPreview,
		&a.PrerequisitesPreview, &a.Proof, &a.Position, &a.X, &a.Y)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying artifact %s: %w", id, err)
	}
	return &a, nil
}

// CountArtifactsByType returns artifact counts keyed by type.
func (d *DB) CountArtifactsByType() (map[string]int, error) {
	rows, err := d.db.Query("SELECT type, COUNT(*) FROM artifacts GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("counting artifacts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scanning artifact count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// CountEdgesByType returns raw edge counts keyed by dependency type.
func (d *DB) CountEdgesByType() (map[string]int, error) {
	rows, err := d.db.Query("SELECT dependency_type, COUNT(*) FROM edges GROUP BY dependency_type")
	if err != nil {
		return nil, fmt.Errorf("counting edges: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scanning edge count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// EdgesTouching returns all raw edges with the given id as either endpoint.
func (d *DB) EdgesTouching(id string) ([]edge.Raw, error) {
	rows, err := d.db.Query(`
		SELECT source, target, dependency_type, reference_type, raw_type, context
		FROM edges WHERE source = ? OR target = ?
	`, id, id)
	if err != nil {
		return nil, fmt.Errorf("querying edges for %s: %w", id, err)
	}
	defer rows.Close()

	var out []edge.Raw
	for rows.Next() {
		var r edge.Raw
		var ctx sql.NullString
		if err := rows.Scan(&r.Source, &r.Target, &r.DependencyType,
			&r.ReferenceType, &r.RawType, &ctx); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		r.Context = ctx.String
		out = append(out, r)
	}
	return out, rows.Err()
}
