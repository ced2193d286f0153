package audit

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "serve-board.com/serve-board/pkg/models"
)

func TestDBSink_RecordAndRead(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.AuditRecord{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sink := NewDBSink(db)
	ctx := context.Background()

	err = sink.Record(ctx, Record{
		ActorID:  "alice",
		Action:   "task.completed",
		TargetID: "task-1",
		Metadata: map[string]any{"mode": "estimated"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.Record(ctx, Record{ActorID: "bob", Action: "task.reopened", TargetID: "task-1"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := sink.ForTarget(ctx, "task-1")
	if err != nil {
		t.Fatalf("for target: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(records[0].Metadata), &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta["mode"] != "estimated" {
		t.Errorf("expected mode metadata, got %v", meta)
	}
	if records[1].Metadata != "" {
		t.Errorf("expected empty metadata, got %q", records[1].Metadata)
	}
}
