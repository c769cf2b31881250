package repository

import (
	"context"
	"database/sql"
	"time"

	"aetheris/internal/models"
)

type OperatorRepo interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

// SnapshotRepo keeps the most recent evaluation in a single row.
type SnapshotRepo interface {
	Save(ctx context.Context, rec models.EvaluationRecord) error
	Load(ctx context.Context) (models.EvaluationRecord, error)
}

// EvaluationRepo is the append-only evaluation log.
type EvaluationRepo interface {
	Append(ctx context.Context, rec models.EvaluationRecord) error
	List(ctx context.Context, from, to time.Time, class string, limit int) ([]models.EvaluationRecord, error)
}

type Repository struct {
	Snapshots   SnapshotRepo
	Evaluations EvaluationRepo
	Operators   OperatorRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Snapshots:   NewSnapshotSQLite(db),
		Evaluations: NewEvaluationSQLite(db),
		Operators:   NewOperatorRepository(db),
	}
}
