package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"aetheris/internal/models"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

const (
	machineStateRowID = 1

	upsertSnapshotSQL = `
		INSERT INTO machine_state (id, record_id, class, interpretation, foundation_temp_c, capacity_pct,
			saturated, opacity_pct, heat_w, solar_w, injected_w, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record_id=excluded.record_id,
			class=excluded.class,
			interpretation=excluded.interpretation,
			foundation_temp_c=excluded.foundation_temp_c,
			capacity_pct=excluded.capacity_pct,
			saturated=excluded.saturated,
			opacity_pct=excluded.opacity_pct,
			heat_w=excluded.heat_w,
			solar_w=excluded.solar_w,
			injected_w=excluded.injected_w,
			updated_at=excluded.updated_at
	`

	selectSnapshotSQL = `
		SELECT record_id, class, interpretation, foundation_temp_c, capacity_pct, saturated,
			opacity_pct, heat_w, solar_w, injected_w, updated_at
		FROM machine_state WHERE id=?
	`
)

// Save upserts the machine_state row (id always 1). A zero OccurredAt is
// stamped with the current UTC time.
func (r *SnapshotSQLite) Save(ctx context.Context, rec models.EvaluationRecord) error {
	ts := rec.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertSnapshotSQL,
		machineStateRowID,
		rec.RecordID,
		string(rec.Class),
		rec.Interpretation,
		rec.State.FoundationTempC,
		rec.State.ThermalCapacityUsedPct,
		rec.State.IsSaturated,
		rec.State.SmartGlassOpacityPct,
		rec.State.ServerHeatOutputW,
		rec.State.SolarGainW,
		rec.InjectedWatts,
		ts,
	)
	return err
}

// Load returns the latest snapshot, or a zero record when nothing has been saved.
func (r *SnapshotSQLite) Load(ctx context.Context) (models.EvaluationRecord, error) {
	row := r.db.QueryRowContext(ctx, selectSnapshotSQL, machineStateRowID)

	var (
		rec   models.EvaluationRecord
		class string
	)
	if err := row.Scan(
		&rec.RecordID,
		&class,
		&rec.Interpretation,
		&rec.State.FoundationTempC,
		&rec.State.ThermalCapacityUsedPct,
		&rec.State.IsSaturated,
		&rec.State.SmartGlassOpacityPct,
		&rec.State.ServerHeatOutputW,
		&rec.State.SolarGainW,
		&rec.InjectedWatts,
		&rec.OccurredAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EvaluationRecord{}, nil
		}
		return models.EvaluationRecord{}, err
	}
	rec.Class = models.OperationalClass(class)
	rec.OccurredAt = rec.OccurredAt.UTC()
	return rec, nil
}
