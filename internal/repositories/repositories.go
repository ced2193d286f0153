package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one connection or transaction.
type Repositories struct {
	db         *gorm.DB
	Tasks      *TaskRepository
	Volunteers *VolunteerRepository
	Hours      *HoursRepository
	Activities *ActivityRepository
	Comments   *CommentRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		Tasks:      NewTaskRepository(db),
		Volunteers: NewVolunteerRepository(db),
		Hours:      NewHoursRepository(db),
		Activities: NewActivityRepository(db),
		Comments:   NewCommentRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
