// Package store provides read access to the upload system's database:
// entities, batches, and transactions. The audit engine consumes it through
// narrow interfaces, so tests substitute fakes or an in-memory database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/osa-dev/ucoa-audit/internal/model"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339
)

// Store wraps the upload system's SQLite database.
type Store struct {
	db *sql.DB
}

// New opens the database at path, creating the schema if absent.
// Use ":memory:" for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY,
		external_id TEXT NOT NULL,
		name TEXT NOT NULL,
		gov_type TEXT NOT NULL,
		fy_start TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS batches (
		id INTEGER PRIMARY KEY,
		entity_id INTEGER NOT NULL REFERENCES entities(id),
		status TEXT NOT NULL,
		uploaded_at TEXT NOT NULL,
		upload_user TEXT NOT NULL,
		file_name TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		total_amount TEXT NOT NULL,
		begin_txn TEXT,
		end_txn TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_batches_entity_status
		ON batches(entity_id, status);

	CREATE TABLE IF NOT EXISTS transactions (
		batch_id INTEGER NOT NULL REFERENCES batches(id),
		tx_type INTEGER NOT NULL,
		account_code TEXT,
		posting_date TEXT NOT NULL,
		fiscal_year INTEGER NOT NULL,
		amount TEXT NOT NULL,
		description TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_batch
		ON transactions(batch_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ListEntities returns every entity in the registry, ordered by name.
func (s *Store) ListEntities(ctx context.Context) ([]model.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, external_id, name, gov_type, fy_start
		FROM entities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []model.Entity
	for rows.Next() {
		var e model.Entity
		var fyStart string
		if err := rows.Scan(&e.ID, &e.ExternalID, &e.Name, &e.GovType, &fyStart); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		e.FYStart, err = model.ParseFiscalYearStart(fyStart)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", e.ID, err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// ListBatches returns an entity's eligible batches, ordered by upload time.
// The status filter is applied here so the engine never sees pending or
// deleted batches.
func (s *Store) ListBatches(ctx context.Context, entityID int64) ([]model.Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, status, uploaded_at, upload_user, file_name,
		       record_count, total_amount, begin_txn, end_txn
		FROM batches
		WHERE entity_id = ? AND status IN (?, ?)
		ORDER BY uploaded_at`,
		entityID, model.StatusProcessed, model.StatusDontDelete)
	if err != nil {
		return nil, fmt.Errorf("querying batches for entity %d: %w", entityID, err)
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ListTransactions returns all transactions of a batch.
func (s *Store) ListTransactions(ctx context.Context, batchID int64) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, tx_type, account_code, posting_date, fiscal_year, amount, description
		FROM transactions WHERE batch_id = ?`, batchID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions for batch %d: %w", batchID, err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		var code, desc sql.NullString
		var posting, amount string
		if err := rows.Scan(&tx.BatchID, &tx.Type, &code, &posting, &tx.FiscalYear, &amount, &desc); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		tx.AccountCode = code.String
		tx.Description = desc.String
		tx.PostingDate, err = time.Parse(dateFormat, posting)
		if err != nil {
			return nil, fmt.Errorf("batch %d: parsing posting date %q: %w", batchID, posting, err)
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("batch %d: parsing amount %q: %w", batchID, amount, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// SaveEntity inserts or replaces an entity. Used by fixtures and tests.
func (s *Store) SaveEntity(ctx context.Context, e model.Entity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO entities (id, external_id, name, gov_type, fy_start)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.ExternalID, e.Name, e.GovType, e.FYStart.String())
	if err != nil {
		return fmt.Errorf("saving entity %d: %w", e.ID, err)
	}
	return nil
}

// SaveBatch inserts or replaces a batch.
func (s *Store) SaveBatch(ctx context.Context, b model.Batch) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO batches
			(id, entity_id, status, uploaded_at, upload_user, file_name,
			 record_count, total_amount, begin_txn, end_txn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.EntityID, b.Status, b.UploadedAt.Format(timeFormat),
		b.UploadUser, b.FileName, b.RecordCount, b.TotalAmount.String(),
		nullableDate(b.BeginTxn), nullableDate(b.EndTxn))
	if err != nil {
		return fmt.Errorf("saving batch %d: %w", b.ID, err)
	}
	return nil
}

// SaveTransactions appends transactions to a batch.
func (s *Store) SaveTransactions(ctx context.Context, txs []model.Transaction) error {
	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO transactions
			(batch_id, tx_type, account_code, posting_date, fiscal_year, amount, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing transaction insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		var code any
		if tx.AccountCode != "" {
			code = tx.AccountCode
		}
		_, err := stmt.ExecContext(ctx, tx.BatchID, tx.Type, code,
			tx.PostingDate.Format(dateFormat), tx.FiscalYear, tx.Amount.String(), tx.Description)
		if err != nil {
			return fmt.Errorf("inserting transaction for batch %d: %w", tx.BatchID, err)
		}
	}
	return nil
}

func scanBatch(rows *sql.Rows) (model.Batch, error) {
	var b model.Batch
	var uploaded, amount string
	var begin, end sql.NullString
	if err := rows.Scan(&b.ID, &b.EntityID, &b.Status, &uploaded, &b.UploadUser,
		&b.FileName, &b.RecordCount, &amount, &begin, &end); err != nil {
		return model.Batch{}, fmt.Errorf("scanning batch: %w", err)
	}

	var err error
	b.UploadedAt, err = time.Parse(timeFormat, uploaded)
	if err != nil {
		return model.Batch{}, fmt.Errorf("batch %d: parsing uploaded_at %q: %w", b.ID, uploaded, err)
	}
	b.TotalAmount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Batch{}, fmt.Errorf("batch %d: parsing total_amount %q: %w", b.ID, amount, err)
	}
	if begin.Valid {
		if b.BeginTxn, err = time.Parse(dateFormat, begin.String); err != nil {
			return model.Batch{}, fmt.Errorf("batch %d: parsing begin_txn: %w", b.ID, err)
		}
	}
	if end.Valid {
		if b.EndTxn, err = time.Parse(dateFormat, end.String); err != nil {
			return model.Batch{}, fmt.Errorf("batch %d: parsing end_txn: %w", b.ID, err)
		}
	}
	return b, nil
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateFormat)
}
