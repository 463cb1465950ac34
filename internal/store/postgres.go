package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS ahp_projects (
	id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name                  TEXT NOT NULL,
	description           TEXT NOT NULL DEFAULT '',
	owner                 TEXT NOT NULL DEFAULT '',
	criteria              TEXT[] NOT NULL,
	alternatives          TEXT[] NOT NULL,
	criteria_judgments    JSONB,
	alternative_judgments JSONB NOT NULL DEFAULT '{}'::jsonb,
	last_evaluated_at     TIMESTAMPTZ,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ahp_evaluations (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	project_id      UUID NOT NULL REFERENCES ahp_projects(id) ON DELETE CASCADE,
	method          TEXT NOT NULL,
	consistent      BOOLEAN NOT NULL,
	top_alternative TEXT NOT NULL DEFAULT '',
	result          JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ahp_evaluations_project_idx ON ahp_evaluations (project_id, created_at DESC);
`

// Migrate creates the tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const projectColumns = `id, name, description, owner, criteria, alternatives,
	criteria_judgments, alternative_judgments,
	last_evaluated_at, created_at, updated_at`

func (s *PostgresStore) CreateProject(ctx context.Context, p *Project) error {
	criteriaJSON, err := marshalJudgments(p.CriteriaJudgments)
	if err != nil {
		return err
	}
	altJSON, err := json.Marshal(nonNilJudgmentMap(p.AlternativeJudgments))
	if err != nil {
		return fmt.Errorf("marshal alternative judgments: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO ahp_projects (name, description, owner, criteria, alternatives,
			criteria_judgments, alternative_judgments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.Owner, p.Criteria, p.Alternatives,
		criteriaJSON, altJSON,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM ahp_projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM ahp_projects WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Owner != "" {
		n++
		query += fmt.Sprintf(" AND owner = $%d", n)
		args = append(args, filter.Owner)
	}
	if filter.Name != "" {
		n++
		query += fmt.Sprintf(" AND name ILIKE $%d", n)
		args = append(args, "%"+filter.Name+"%")
	}

	query += " ORDER BY updated_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ahp_projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetCriteriaJudgments(ctx context.Context, id uuid.UUID, judgments []float64) error {
	data, err := marshalJudgments(judgments)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE ahp_projects SET criteria_judgments = $2, updated_at = now()
		WHERE id = $1`, id, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetAlternativeJudgments(ctx context.Context, id uuid.UUID, criterion string, judgments []float64) error {
	// jsonb_set with NULL would wipe the whole map.
	if judgments == nil {
		judgments = []float64{}
	}
	data, err := marshalJudgments(judgments)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE ahp_projects
		SET alternative_judgments = jsonb_set(alternative_judgments, ARRAY[$2::text], $3::jsonb, true),
			updated_at = now()
		WHERE id = $1`, id, criterion, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RecordEvaluation(ctx context.Context, e *EvaluationRecord) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO ahp_evaluations (project_id, method, consistent, top_alternative, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		e.ProjectID, e.Method, e.Consistent, e.TopAlternative, []byte(e.Result),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE ahp_projects SET last_evaluated_at = $2 WHERE id = $1`, e.ProjectID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetLatestEvaluation(ctx context.Context, projectID uuid.UUID) (*EvaluationRecord, error) {
	e := &EvaluationRecord{}
	var result []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, project_id, method, consistent, top_alternative, result, created_at
		FROM ahp_evaluations WHERE project_id = $1
		ORDER BY created_at DESC LIMIT 1`, projectID,
	).Scan(&e.ID, &e.ProjectID, &e.Method, &e.Consistent, &e.TopAlternative, &result, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Result = json.RawMessage(result)
	return e, nil
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	var criteriaJSON, altJSON []byte
	var description, owner sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &description, &owner, &p.Criteria, &p.Alternatives,
		&criteriaJSON, &altJSON,
		&p.LastEvaluatedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Owner = owner.String
	if criteriaJSON != nil {
		if err := json.Unmarshal(criteriaJSON, &p.CriteriaJudgments); err != nil {
			return nil, fmt.Errorf("decode criteria judgments: %w", err)
		}
	}
	if altJSON != nil {
		if err := json.Unmarshal(altJSON, &p.AlternativeJudgments); err != nil {
			return nil, fmt.Errorf("decode alternative judgments: %w", err)
		}
	}
	return p, nil
}

// marshalJudgments returns nil for an absent judgment list so the column stays NULL.
func marshalJudgments(j []float64) ([]byte, error) {
	if j == nil {
		return nil, nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("marshal judgments: %w", err)
	}
	return data, nil
}

func nonNilJudgmentMap(m map[string][]float64) map[string][]float64 {
	if m == nil {
		return map[string][]float64{}
	}
	return m
}
