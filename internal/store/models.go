package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Artist is a row of the artists table.
type Artist struct {
	ID        uuid.UUID
	Name      string
	LegalName string
}

// StatementRecord is a row of the artist_statements table. There is one
// statement per artist and month.
type StatementRecord struct {
	ID                uuid.UUID
	ArtistID          uuid.UUID
	PeriodStart       time.Time
	PeriodEnd         time.Time
	StatementMonth    string
	LegalName         string
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	TotalAdvances     decimal.Decimal
	Balance           decimal.Decimal
	TotalTransactions int
	LastImportDate    time.Time
	ImportSource      string
}

// TransactionRecord is a row of the statement_transactions table.
type TransactionRecord struct {
	ID              uuid.UUID
	StatementID     uuid.UUID
	ArtistID        uuid.UUID
	TransactionDate time.Time
	Concept         string
	Name            string
	PaymentMethod   string
	Amount          decimal.Decimal
	TransactionType string
	Category        string
	RunningBalance  decimal.NullDecimal

	// Amounts holds every numeric cell of the ledger row by column name.
	Amounts map[string]string

	// SourceRow is the 1-based worksheet row.
	SourceRow int
}

// Repository is the storage used by the Importer.
type Repository interface {
	// FindArtistByName returns the artist whose name matches
	// case-insensitively, or nil when there is none.
	FindArtistByName(ctx context.Context, name string) (*Artist, error)

	CreateArtist(ctx context.Context, artist *Artist) error

	// UpsertStatement inserts or updates the statement for
	// (ArtistID, StatementMonth) and returns the stored id.
	UpsertStatement(ctx context.Context, st *StatementRecord) (uuid.UUID, error)

	DeleteTransactions(ctx context.Context, statementID uuid.UUID) error

	InsertTransactions(ctx context.Context, txs []TransactionRecord) error

	// WithTx runs fn on a repository bound to one database transaction.
	// The transaction is committed when fn returns nil and rolled back
	// otherwise.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
