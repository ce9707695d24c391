package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"traininglog/api/internal/ids"
)

const uniqueViolation = "23505"

// PostgresCollection stores documents as JSONB rows in a table named after
// the schema. seq preserves insertion order.
type PostgresCollection[T any] struct {
	pool   *pgxpool.Pool
	schema Schema
	table  string
}

func NewPostgresCollection[T any](pool *pgxpool.Pool, schema Schema) *PostgresCollection[T] {
	return &PostgresCollection[T]{
		pool:   pool,
		schema: schema,
		table:  pgx.Identifier{schema.Name}.Sanitize(),
	}
}

// EnsureSchema creates the table and its indexes if they are missing.
func (c *PostgresCollection[T]) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq        BIGSERIAL,
				id         TEXT PRIMARY KEY,
				owner      TEXT NOT NULL,
				body       JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, c.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (owner, seq)`,
			pgx.Identifier{c.schema.Name + "_owner_seq_idx"}.Sanitize(), c.table),
	}
	if c.schema.UniqueOwner {
		statements = append(statements, fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (owner)`,
			pgx.Identifier{c.schema.Name + "_owner_key"}.Sanitize(), c.table))
	}
	if c.schema.UniqueField != "" {
		statements = append(statements, fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (owner, (body ->> %s))`,
			pgx.Identifier{c.schema.Name + "_owner_" + c.schema.UniqueField + "_key"}.Sanitize(),
			c.table,
			quoteLiteral(c.schema.UniqueField)))
	}

	for _, stmt := range statements {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s: %w", c.schema.Name, err)
		}
	}
	return nil
}

func (c *PostgresCollection[T]) Insert(ctx context.Context, owner string, doc T) (Record[T], error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return Record[T]{}, fmt.Errorf("encode document: %w", err)
	}

	id := ids.New()
	query := fmt.Sprintf(`INSERT INTO %s (id, owner, body) VALUES ($1, $2, $3::jsonb)`, c.table)
	if _, err := c.pool.Exec(ctx, query, id, owner, string(body)); err != nil {
		return Record[T]{}, c.mapError(err)
	}
	return Record[T]{ID: id, Owner: owner, Doc: doc}, nil
}

func (c *PostgresCollection[T]) Find(ctx context.Context, filter Filter) ([]Record[T], error) {
	if filter.Owner == "" {
		return nil, nil
	}

	where, args := whereClause(filter)
	query := fmt.Sprintf(`SELECT id, owner, body FROM %s WHERE %s ORDER BY seq`, c.table, where)

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.schema.Name, err)
	}
	defer rows.Close()

	var records []Record[T]
	for rows.Next() {
		var (
			record Record[T]
			body   []byte
		)
		if err := rows.Scan(&record.ID, &record.Owner, &body); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &record.Doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", record.ID, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (c *PostgresCollection[T]) FindOne(ctx context.Context, filter Filter) (Record[T], error) {
	records, err := c.Find(ctx, filter)
	if err != nil {
		return Record[T]{}, err
	}
	if len(records) == 0 {
		return Record[T]{}, ErrNotFound
	}
	return records[0], nil
}

func (c *PostgresCollection[T]) Update(ctx context.Context, filter Filter, doc T) error {
	if filter.Owner == "" || filter.ID == "" {
		return ErrNotFound
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET body = $3::jsonb,
		    updated_at = NOW()
		WHERE owner = $1 AND id = $2
	`, c.table)
	cmd, err := c.pool.Exec(ctx, query, filter.Owner, filter.ID, string(body))
	if err != nil {
		return c.mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *PostgresCollection[T]) Delete(ctx context.Context, filter Filter) (int64, error) {
	if filter.Owner == "" {
		return 0, nil
	}

	where, args := whereClause(filter)
	cmd, err := c.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, c.table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", c.schema.Name, err)
	}
	return cmd.RowsAffected(), nil
}

func (c *PostgresCollection[T]) Owners(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, fmt.Sprintf(`SELECT DISTINCT owner FROM %s`, c.table))
	if err != nil {
		return nil, fmt.Errorf("owners %s: %w", c.schema.Name, err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (c *PostgresCollection[T]) mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return fmt.Errorf("write %s: %w", c.schema.Name, err)
}

func whereClause(filter Filter) (string, []any) {
	clauses := []string{"owner = $1"}
	args := []any{filter.Owner}

	if filter.ID != "" {
		args = append(args, filter.ID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.Field != "" {
		args = append(args, filter.Field, filter.Value)
		clauses = append(clauses, fmt.Sprintf("body ->> $%d::text = $%d", len(args)-1, len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
