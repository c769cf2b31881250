package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"aetheris/internal/models"

	"github.com/google/uuid"
)

// DefaultListLimit caps List when the caller passes limit <= 0.
const DefaultListLimit = 500

// Fixed-width nanoseconds keep text ordering equal to time ordering.
const sqliteTimestampLayout = "2006-01-02 15:04:05.000000000"

type EvaluationSQLite struct {
	db *sql.DB
}

func NewEvaluationSQLite(db *sql.DB) *EvaluationSQLite { return &EvaluationSQLite{db: db} }

// Append inserts a record, assigning RecordID and OccurredAt when empty.
func (r *EvaluationSQLite) Append(ctx context.Context, rec models.EvaluationRecord) error {
	if rec.RecordID == "" {
		rec.RecordID = uuid.NewString()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	} else {
		rec.OccurredAt = rec.OccurredAt.UTC()
	}

	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	var metaPtr *string
	if rec.Metadata != nil {
		if b, err := json.Marshal(rec.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}
	var advisoryPtr *string
	if rec.Advisory != "" {
		advisoryPtr = &rec.Advisory
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO evaluation_log (id, occurred_at, class, interpretation, state, injected_w, advisory, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RecordID,
		rec.OccurredAt.Format(sqliteTimestampLayout),
		strings.ToUpper(strings.TrimSpace(string(rec.Class))),
		rec.Interpretation,
		string(stateJSON),
		rec.InjectedWatts,
		advisoryPtr,
		metaPtr,
	)
	return err
}

// List returns the newest limit records in [from, to] (zero bounds are
// open) optionally filtered by class. The page is returned oldest first.
func (r *EvaluationSQLite) List(ctx context.Context, from, to time.Time, class string, limit int) ([]models.EvaluationRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestampLayout))
	}
	if class = strings.ToUpper(strings.TrimSpace(class)); class != "" {
		conds = append(conds, "class = ?")
		args = append(args, class)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := `SELECT id, occurred_at, class, interpretation, state, injected_w, advisory, meta FROM evaluation_log`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.EvaluationRecord, 0, 64)
	for rows.Next() {
		var (
			rec      models.EvaluationRecord
			class    string
			stateStr string
			advisory sql.NullString
			metaStr  sql.NullString
		)
		if err := rows.Scan(&rec.RecordID, &rec.OccurredAt, &class, &rec.Interpretation, &stateStr, &rec.InjectedWatts, &advisory, &metaStr); err != nil {
			return nil, err
		}
		rec.Class = models.OperationalClass(class)
		rec.OccurredAt = rec.OccurredAt.UTC()
		if err := json.Unmarshal([]byte(stateStr), &rec.State); err != nil {
			return nil, fmt.Errorf("decode state of %s: %w", rec.RecordID, err)
		}
		rec.Advisory = advisory.String

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				rec.Metadata = v
			} else {
				rec.Metadata = metaStr.String
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}
