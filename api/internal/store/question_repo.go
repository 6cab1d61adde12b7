package store

import (
	"context"
	"database/sql"
)

// QuestionRepo keeps a bank of generated practice questions in Postgres.
// It is optional infrastructure: callers fall back to the built-in seed list
// when no database is configured or a query fails.
type QuestionRepo struct{ DB *sql.DB }

func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{DB: db} }

func (r *QuestionRepo) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists questions (
	id         serial primary key,
	text       text not null unique,
	created_at timestamptz not null default now()
)`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// Add stores a question, ignoring duplicates.
func (r *QuestionRepo) Add(ctx context.Context, text string) error {
	const q = `insert into questions(text) values ($1) on conflict (text) do nothing`
	_, err := r.DB.ExecContext(ctx, q, text)
	return err
}

// Random returns one stored question. sql.ErrNoRows when the bank is empty.
func (r *QuestionRepo) Random(ctx context.Context) (string, error) {
	const q = `select text from questions order by random() limit 1`
	var text string
	if err := r.DB.QueryRowContext(ctx, q).Scan(&text); err != nil {
		return "", err
	}
	return text, nil
}
