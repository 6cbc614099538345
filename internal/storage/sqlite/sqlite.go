package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository. Inputs and
// steps are stored as JSON columns: fixtures are read and written whole, so
// there is nothing to gain from normalizing the step rows.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// SaveSequence stores a sequence fixture, replacing any previous fixture for
// the same algorithm.
func (r *Repository) SaveSequence(ctx context.Context, seq model.StepSequence) (*model.SequenceRef, error) {
	inputsJSON, err := json.Marshal(seq.Inputs)
	if err != nil {
		return nil, fmt.Errorf("could not serialize inputs: %w", err)
	}
	stepsJSON, err := json.Marshal(seq.Steps)
	if err != nil {
		return nil, fmt.Errorf("could not serialize steps: %w", err)
	}

	id := ulid.Make().String()

	query := `
		INSERT INTO step_sequences (
			id, algorithm_id, format_version, generated_at, generated_by,
			step_count, inputs, steps
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(algorithm_id) DO UPDATE SET
			id = excluded.id,
			format_version = excluded.format_version,
			generated_at = excluded.generated_at,
			generated_by = excluded.generated_by,
			step_count = excluded.step_count,
			inputs = excluded.inputs,
			steps = excluded.steps
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		id,
		seq.AlgorithmID,
		seq.FormatVersion,
		seq.GeneratedAt.UTC().Format(time.RFC3339Nano),
		seq.GeneratedBy,
		len(seq.Steps),
		string(inputsJSON),
		string(stepsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("could not insert sequence: %w", err)
	}

	r.logger.Debugf("Saved sequence fixture for %s (%d steps)", seq.AlgorithmID, len(seq.Steps))

	return &model.SequenceRef{
		ID:          id,
		AlgorithmID: seq.AlgorithmID,
		StepCount:   len(seq.Steps),
		GeneratedAt: seq.GeneratedAt,
		GeneratedBy: seq.GeneratedBy,
	}, nil
}

// GetSequence retrieves a sequence fixture by algorithm id.
func (r *Repository) GetSequence(ctx context.Context, algorithmID string) (*model.StepSequence, error) {
	query := `
		SELECT algorithm_id, format_version, generated_at, generated_by, inputs, steps
		FROM step_sequences
		WHERE algorithm_id = ?
	`

	row := r.db.QueryRowContext(ctx, query, algorithmID)

	var (
		seq         model.StepSequence
		generatedAt string
		inputsJSON  string
		stepsJSON   string
	)
	err := row.Scan(&seq.AlgorithmID, &seq.FormatVersion, &generatedAt, &seq.GeneratedBy, &inputsJSON, &stepsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sequence for algorithm %s: %w", algorithmID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query sequence: %w", err)
	}

	seq.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("could not parse generated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(inputsJSON), &seq.Inputs); err != nil {
		return nil, fmt.Errorf("could not deserialize inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &seq.Steps); err != nil {
		return nil, fmt.Errorf("could not deserialize steps: %w", err)
	}

	return &seq, nil
}

// ListSequences returns references to all stored fixtures.
func (r *Repository) ListSequences(ctx context.Context) ([]model.SequenceRef, error) {
	query := `
		SELECT id, algorithm_id, generated_at, generated_by, step_count
		FROM step_sequences
		ORDER BY algorithm_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query sequences: %w", err)
	}
	defer rows.Close()

	var refs []model.SequenceRef
	for rows.Next() {
		var (
			ref         model.SequenceRef
			generatedAt string
		)
		if err := rows.Scan(&ref.ID, &ref.AlgorithmID, &generatedAt, &ref.GeneratedBy, &ref.StepCount); err != nil {
			return nil, fmt.Errorf("could not scan sequence row: %w", err)
		}
		ref.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("could not parse generated_at: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate sequence rows: %w", err)
	}

	return refs, nil
}

// DeleteSequence removes a sequence fixture by algorithm id.
func (r *Repository) DeleteSequence(ctx context.Context, algorithmID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM step_sequences WHERE algorithm_id = ?`, algorithmID)
	if err != nil {
		return fmt.Errorf("could not delete sequence: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sequence for algorithm %s: %w", algorithmID, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted sequence fixture for %s", algorithmID)

	return nil
}
