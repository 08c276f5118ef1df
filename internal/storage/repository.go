package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ricevute/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id is not in the snapshot.
var ErrNotFound = errors.New("record not found")

// SQLiteRepository keeps the last good record snapshot on disk so the
// service can serve views while the upstream gateway is unreachable.
// Rows preserve upstream order through the position column; the audit
// queue and sort tiebreaks depend on it.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceRecords swaps the stored snapshot for recs in one
// transaction. Order of recs is preserved.
func (r *SQLiteRepository) ReplaceRecords(ctx context.Context, recs []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			invoice_id, owner_id, owner_name, owner_email, kind,
			vendor, category, raw_amount, processed_date, upload_date,
			evidence_uri, risk_flag, ai_summary, status, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.OwnerID, rec.OwnerName, rec.OwnerEmail, string(rec.Kind),
			rec.Vendor, rec.Category, rec.RawAmount, rec.ProcessedDate, rec.UploadDate,
			rec.EvidenceURI, rec.RiskFlag, rec.AISummary, rec.Status, i,
		); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, refreshed_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET refreshed_at = excluded.refreshed_at`,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("stamp snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Record snapshot replaced", "count", len(recs))
	return nil
}

// ListRecords returns the snapshot in its original upstream order.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// GetRecord fetches one record by invoice id.
func (r *SQLiteRepository) GetRecord(ctx context.Context, invoiceID string) (core.Record, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` FROM records WHERE invoice_id = ?`, invoiceID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get record %s: %w", invoiceID, err)
	}
	return rec, nil
}

// LastRefreshedAt reports when the snapshot was last replaced. The
// zero time means no snapshot has ever been written.
func (r *SQLiteRepository) LastRefreshedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := r.db.QueryRowContext(ctx, `SELECT refreshed_at FROM snapshot_meta WHERE id = 1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read snapshot stamp: %w", err)
	}
	return ts, nil
}

const selectColumns = `
	SELECT invoice_id, owner_id, owner_name, owner_email, kind,
	       vendor, category, raw_amount, processed_date, upload_date,
	       evidence_uri, risk_flag, ai_summary, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.Record, error) {
	var rec core.Record
	var kind string
	if err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.OwnerName, &rec.OwnerEmail, &kind,
		&rec.Vendor, &rec.Category, &rec.RawAmount, &rec.ProcessedDate, &rec.UploadDate,
		&rec.EvidenceURI, &rec.RiskFlag, &rec.AISummary, &rec.Status,
	); err != nil {
		return core.Record{}, err
	}
	rec.Kind = core.RecordKind(kind)
	rec.Amount = core.ParseAmount(rec.RawAmount)
	return rec, nil
}
