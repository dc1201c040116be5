package persistence

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	syncdomain "github.com/feedsync/backend/internal/domain/sync"
	"github.com/feedsync/backend/internal/infrastructure/persistence/models"
)

// SyncRunRepository stores run reports for the history endpoint.
type SyncRunRepository struct {
	db *gorm.DB
}

func NewSyncRunRepository(db *Database) *SyncRunRepository {
	return &SyncRunRepository{db: db.DB}
}

var _ syncdomain.RunStore = (*SyncRunRepository)(nil)

func (r *SyncRunRepository) Save(ctx context.Context, report *syncdomain.Report) error {
	runID, err := uuid.Parse(report.RunID)
	if err != nil {
		runID = uuid.New()
	}

	errorsJSON, err := json.Marshal(report.Errors)
	if err != nil {
		return err
	}
	warningsJSON, err := json.Marshal(report.Warnings)
	if err != nil {
		return err
	}

	model := models.SyncRunModel{
		ID:           runID,
		Mode:         string(report.Mode),
		State:        string(report.State),
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		FeedProducts: report.FeedProducts,
		FeedVariants: report.FeedVariants,
		Processed:    report.Processed,
		Created:      report.Created,
		Updated:      report.Updated,
		Skipped:      report.Skipped,
		Failed:       report.Failed,
		Errors:       string(errorsJSON),
		Warnings:     string(warningsJSON),
		AbortReason:  report.AbortReason,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *SyncRunRepository) Latest(ctx context.Context, limit int) ([]syncdomain.Report, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.SyncRunModel
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	reports := make([]syncdomain.Report, 0, len(rows))
	for _, row := range rows {
		report := syncdomain.Report{
			RunID:        row.ID.String(),
			Mode:         syncdomain.Mode(row.Mode),
			State:        syncdomain.RunState(row.State),
			StartedAt:    row.StartedAt,
			FinishedAt:   row.FinishedAt,
			FeedProducts: row.FeedProducts,
			FeedVariants: row.FeedVariants,
			Processed:    row.Processed,
			Created:      row.Created,
			Updated:      row.Updated,
			Skipped:      row.Skipped,
			Failed:       row.Failed,
			AbortReason:  row.AbortReason,
		}
		if row.Errors != "" {
			_ = json.Unmarshal([]byte(row.Errors), &report.Errors)
		}
		if row.Warnings != "" {
			_ = json.Unmarshal([]byte(row.Warnings), &report.Warnings)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
