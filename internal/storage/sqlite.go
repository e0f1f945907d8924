// Package storage persists session state (profile fields, assembled reports,
// chat history) in SQLite. The default DSN is ":memory:", so state lives only
// as long as the process unless a data directory is configured.
package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kalambet/wayfind/internal/report"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with methods for the profile, reports, and
// chat history. It implements profile.Store and report.Store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. An empty or ":memory:" dataDir selects an in-memory database.
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == "" || dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "wayfind.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- User Profile ---

// ReplaceProfileFields replaces the stored profile wholesale: all existing
// fields are deleted and the given set written in their place.
func (s *Store) ReplaceProfileFields(fields map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM user_profile"); err != nil {
		return fmt.Errorf("clearing profile: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for key, value := range fields {
		if _, err := tx.Exec(
			"INSERT INTO user_profile (key, value, updated_at) VALUES (?, ?, ?)",
			key, value, now,
		); err != nil {
			return fmt.Errorf("writing profile field %q: %w", key, err)
		}
	}

	return tx.Commit()
}

// GetAllProfileFields returns every stored profile field. An empty map means
// no profile has been saved.
func (s *Store) GetAllProfileFields() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM user_profile")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}

// --- Reports ---

// SaveReport upserts rep under its career name.
func (s *Store) SaveReport(rep report.Report) error {
	_, err := s.db.Exec(`
		INSERT INTO reports (career_name, research, market_analysis, learning_roadmap, industry_insights, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(career_name) DO UPDATE SET
			research = excluded.research,
			market_analysis = excluded.market_analysis,
			learning_roadmap = excluded.learning_roadmap,
			industry_insights = excluded.industry_insights,
			generated_at = excluded.generated_at`,
		rep.CareerName, rep.Research, rep.MarketAnalysis, rep.LearningRoadmap,
		rep.IndustryInsights, rep.GeneratedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetReport returns the stored report for careerName; the second return is
// false when none exists.
func (s *Store) GetReport(careerName string) (report.Report, bool, error) {
	var rep report.Report
	var generatedAt string
	err := s.db.QueryRow(`
		SELECT career_name, research, market_analysis, learning_roadmap, industry_insights, generated_at
		FROM reports WHERE career_name = ?`, careerName,
	).Scan(&rep.CareerName, &rep.Research, &rep.MarketAnalysis, &rep.LearningRoadmap, &rep.IndustryInsights, &generatedAt)
	if err == sql.ErrNoRows {
		return report.Report{}, false, nil
	}
	if err != nil {
		return report.Report{}, false, err
	}
	t, err := time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return report.Report{}, false, fmt.Errorf("parsing generated_at: %w", err)
	}
	rep.GeneratedAt = t
	return rep, true, nil
}

// ListReports returns all stored reports, most recent first.
func (s *Store) ListReports() ([]report.Report, error) {
	rows, err := s.db.Query(`
		SELECT career_name, research, market_analysis, learning_roadmap, industry_insights, generated_at
		FROM reports ORDER BY generated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []report.Report
	for rows.Next() {
		var rep report.Report
		var generatedAt string
		if err := rows.Scan(&rep.CareerName, &rep.Research, &rep.MarketAnalysis, &rep.LearningRoadmap, &rep.IndustryInsights, &generatedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing generated_at: %w", err)
		}
		rep.GeneratedAt = t
		results = append(results, rep)
	}
	return results, rows.Err()
}

// --- Chat History ---

// AppendChatTurn records one advisor exchange.
func (s *Store) AppendChatTurn(turn ChatTurn) error {
	_, err := s.db.Exec(`
		INSERT INTO chat_turns (id, created_at, question, response, career)
		VALUES (?, ?, ?, ?, ?)`,
		turn.ID, turn.CreatedAt.UTC().Format(time.RFC3339), turn.Question, turn.Response, turn.Career,
	)
	return err
}

// ListChatTurns returns up to limit turns in chronological order.
func (s *Store) ListChatTurns(limit int) ([]ChatTurn, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, question, response, career
		FROM chat_turns ORDER BY created_at ASC, id ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ChatTurn
	for rows.Next() {
		var turn ChatTurn
		var createdAt string
		if err := rows.Scan(&turn.ID, &createdAt, &turn.Question, &turn.Response, &turn.Career); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		turn.CreatedAt = t
		results = append(results, turn)
	}
	return results, rows.Err()
}
