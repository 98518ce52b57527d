package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is implemented by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresRepository implements Repository on a pgx pool, or on one
// transaction of it inside WithTx.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository creates a repository on an open pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: pool}
}

// WithTx runs fn in a transaction. Inside a transaction it uses a savepoint.
func (r *PostgresRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// schema creates the statement tables when they are missing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS artists (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		legal_name VARCHAR(255),
		genre VARCHAR(100) NOT NULL DEFAULT 'Unknown',
		country VARCHAR(100) NOT NULL DEFAULT 'Unknown',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS artist_statements (
		id UUID PRIMARY KEY,
		artist_id UUID NOT NULL REFERENCES artists (id) ON DELETE CASCADE,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		statement_month CHAR(7) NOT NULL,
		legal_name VARCHAR(255),
		total_income NUMERIC(18, 2) NOT NULL DEFAULT 0,
		total_expenses NUMERIC(18, 2) NOT NULL DEFAULT 0,
		total_advances NUMERIC(18, 2) NOT NULL DEFAULT 0,
		balance NUMERIC(18, 2) NOT NULL DEFAULT 0,
		total_transactions INTEGER NOT NULL DEFAULT 0,
		last_import_date TIMESTAMPTZ NOT NULL,
		import_source VARCHAR(50) NOT NULL,
		UNIQUE (artist_id, statement_month)
	)`,
	`CREATE TABLE IF NOT EXISTS statement_transactions (
		id UUID PRIMARY KEY,
		statement_id UUID NOT NULL REFERENCES artist_statements (id) ON DELETE CASCADE,
		artist_id UUID NOT NULL REFERENCES artists (id) ON DELETE CASCADE,
		transaction_date DATE NOT NULL,
		concept TEXT NOT NULL,
		name TEXT,
		payment_method_detail TEXT,
		amount NUMERIC(18, 2) NOT NULL,
		transaction_type VARCHAR(20) NOT NULL CHECK (transaction_type IN ('income', 'expense', 'advance', 'payment')),
		category VARCHAR(100) NOT NULL,
		running_balance NUMERIC(18, 2),
		amounts JSONB,
		source_row INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_statement_transactions_statement ON statement_transactions (statement_id)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, query := range schema {
		if _, err := r.db.Exec(ctx, query); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}
	return nil
}

// escapeLike escapes the ILIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// FindArtistByName looks up an artist by name, ignoring case.
func (r *PostgresRepository) FindArtistByName(ctx context.Context, name string) (*Artist, error) {
	query := `
	SELECT id, name, COALESCE(legal_name, '')
	FROM artists
	WHERE name ILIKE $1
	ORDER BY created_at
	LIMIT 1;`

	var a Artist
	err := r.db.QueryRow(ctx, query, escapeLike(name)).Scan(&a.ID, &a.Name, &a.LegalName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding artist %q: %w", name, err)
	}
	return &a, nil
}

// CreateArtist inserts an artist. A zero ID is replaced by a new one.
func (r *PostgresRepository) CreateArtist(ctx context.Context, artist *Artist) error {
	if artist.ID == uuid.Nil {
		artist.ID = uuid.New()
	}

	query := `
	INSERT INTO artists (id, name, legal_name)
	VALUES ($1, $2, NULLIF($3, ''));`

	if _, err := r.db.Exec(ctx, query, artist.ID, artist.Name, artist.LegalName); err != nil {
		return fmt.Errorf("error creating artist %q: %w", artist.Name, err)
	}
	return nil
}

// UpsertStatement inserts the statement or updates the one stored for the
// same artist and month.
func (r *PostgresRepository) UpsertStatement(ctx context.Context, st *StatementRecord) (uuid.UUID, error) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}

	query := `
	INSERT INTO artist_statements (
		id, artist_id, period_start, period_end, statement_month, legal_name,
		total_income, total_expenses, total_advances, balance,
		total_transactions, last_import_date, import_source
	) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (artist_id, statement_month)
	DO UPDATE SET
		period_start = EXCLUDED.period_start,
		period_end = EXCLUDED.period_end,
		legal_name = EXCLUDED.legal_name,
		total_income = EXCLUDED.total_income,
		total_expenses = EXCLUDED.total_expenses,
		total_advances = EXCLUDED.total_advances,
		balance = EXCLUDED.balance,
		total_transactions = EXCLUDED.total_transactions,
		last_import_date = EXCLUDED.last_import_date,
		import_source = EXCLUDED.import_source
	RETURNING id;`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		st.ID, st.ArtistID, st.PeriodStart, st.PeriodEnd, st.StatementMonth, st.LegalName,
		st.TotalIncome, st.TotalExpenses, st.TotalAdvances, st.Balance,
		st.TotalTransactions, st.LastImportDate, st.ImportSource,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("error saving statement %s: %w", st.StatementMonth, err)
	}

	st.ID = id
	return id, nil
}

// DeleteTransactions removes every transaction of a statement.
func (r *PostgresRepository) DeleteTransactions(ctx context.Context, statementID uuid.UUID) error {
	query := `DELETE FROM statement_transactions WHERE statement_id = $1;`

	if _, err := r.db.Exec(ctx, query, statementID); err != nil {
		return fmt.Errorf("error deleting transactions: %w", err)
	}
	return nil
}

// InsertTransactions inserts the rows in a single round trip.
func (r *PostgresRepository) InsertTransactions(ctx context.Context, txs []TransactionRecord) error {
	if len(txs) == 0 {
		return nil
	}

	query := `
	INSERT INTO statement_transactions (
		id, statement_id, artist_id, transaction_date, concept, name,
		payment_method_detail, amount, transaction_type, category,
		running_balance, amounts, source_row
	) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13);`

	batch := &pgx.Batch{}
	for _, t := range txs {
		id := t.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(query,
			id, t.StatementID, t.ArtistID, t.TransactionDate, t.Concept, t.Name,
			t.PaymentMethod, t.Amount, t.TransactionType, t.Category,
			t.RunningBalance, t.Amounts, t.SourceRow,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	for range txs {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("error inserting transactions: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("error inserting transactions: %w", err)
	}
	return nil
}
