package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ppiankov/degreeplan/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS selections (
	major     TEXT NOT NULL,
	raw_value TEXT NOT NULL,
	PRIMARY KEY (major, raw_value)
);
CREATE TABLE IF NOT EXISTS plans (
	name  TEXT PRIMARY KEY,
	major TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS plan_courses (
	plan_name TEXT NOT NULL REFERENCES plans (name) ON DELETE CASCADE,
	code      TEXT NOT NULL,
	semester  TEXT NOT NULL,
	position  INT  NOT NULL,
	PRIMARY KEY (plan_name, code)
);`

const listSelection = `SELECT raw_value FROM selections WHERE major = $1 ORDER BY raw_value`
const deleteSelection = `DELETE FROM selections WHERE major = $1`
const insertSelection = `INSERT INTO selections (major, raw_value) VALUES ($1, $2) ON CONFLICT DO NOTHING`

const selectPlan = `SELECT name, major FROM plans WHERE name = $1`
const listPlanCourses = `SELECT code, semester FROM plan_courses WHERE plan_name = $1 ORDER BY position`
const upsertPlan = `INSERT INTO plans (name, major) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET major = EXCLUDED.major`
const deletePlanCourses = `DELETE FROM plan_courses WHERE plan_name = $1`
const insertPlanCourse = `INSERT INTO plan_courses (plan_name, code, semester, position) VALUES ($1, $2, $3, $4)`

// PostgresStore keeps selections and plans in Postgres
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and creates the schema if needed
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres store requires a DSN")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &PostgresStore{Pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables used by the store
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadSelection(ctx context.Context, major model.Major) ([]string, error) {
	rows, err := s.Pool.Query(ctx, listSelection, string(major))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// SaveSelection replaces the major's selection in one transaction
func (s *PostgresStore) SaveSelection(ctx context.Context, major model.Major, values []string) error {
	return pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteSelection, string(major)); err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}

		batch := pgx.Batch{}
		for _, v := range values {
			batch.Queue(insertSelection, string(major), v)
		}
		return tx.SendBatch(ctx, &batch).Close()
	})
}

func (s *PostgresStore) LoadPlan(ctx context.Context, name string) (*model.Plan, error) {
	var plan model.Plan
	var major string
	err := s.Pool.QueryRow(ctx, selectPlan, name).Scan(&plan.Name, &major)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plan %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	plan.Major = model.Major(major)

	rows, err := s.Pool.Query(ctx, listPlanCourses, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var course model.PlannedCourse
		if err := rows.Scan(&course.Code, &course.Semester); err != nil {
			return nil, err
		}
		plan.Courses = append(plan.Courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &plan, nil
}

// SavePlan upserts the plan and replaces its course list
func (s *PostgresStore) SavePlan(ctx context.Context, plan *model.Plan) error {
	if plan.Name == "" {
		return errors.New("plan name is required")
	}

	return pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		batch := pgx.Batch{}
		batch.Queue(upsertPlan, plan.Name, string(plan.Major))
		batch.Queue(deletePlanCourses, plan.Name)
		for i, course := range plan.Courses {
			batch.Queue(insertPlanCourse, plan.Name, course.Code, course.Semester, i)
		}
		return tx.SendBatch(ctx, &batch).Close()
	})
}

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
