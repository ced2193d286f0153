// Package audit records who did what to which task.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "serve-board.com/serve-board/pkg/models"
)

type Record struct {
	ActorID  string
	Action   string
	TargetID string
	Metadata map[string]any
}

// Sink stores audit records. Callers write records after their own
// transaction commits and only log a failing write.
type Sink interface {
	Record(ctx context.Context, rec Record) error
}

// DBSink writes records to the audit_records table.
type DBSink struct {
	db *gorm.DB
}

func NewDBSink(db *gorm.DB) *DBSink {
	return &DBSink{db: db}
}

func (s *DBSink) Record(ctx context.Context, rec Record) error {
	metadata := ""
	if len(rec.Metadata) > 0 {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("encode audit metadata: %w", err)
		}
		metadata = string(raw)
	}

	row := &model.AuditRecord{
		ID:        uuid.NewString(),
		ActorID:   rec.ActorID,
		Action:    rec.Action,
		TargetID:  rec.TargetID,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// ForTarget returns the records about targetID, oldest first.
func (s *DBSink) ForTarget(ctx context.Context, targetID string) ([]model.AuditRecord, error) {
	var records []model.AuditRecord
	err := s.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("created_at asc").
		Find(&records).Error
	return records, err
}
