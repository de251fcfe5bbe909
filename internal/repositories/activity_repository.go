package repositories

import (
	"github.com/huddle-social/backend/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for activity feed storage.
// Activity rows are write-once: fan-out inserts them, the feed reader reads
// them, and lifecycle cleanup deletes them by subject. Nothing updates them.
type ActivityRepository interface {
	InsertAll(activities []models.Activity) error
	GetFeed(userID uint, limit int) ([]models.Activity, error)
	DeleteBySubject(subjectType, subjectID string) error
	DeleteBySubjectActorType(subjectType, subjectID string, actorID uint, activityType string) error
	CountBySubject(subjectType, subjectID string) (int64, error)
}

// PostgresActivityRepository implements ActivityRepository for PostgreSQL
type PostgresActivityRepository struct {
	db *gorm.DB
}

// NewPostgresActivityRepository creates a new PostgresActivityRepository
func NewPostgresActivityRepository(db *gorm.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// InsertAll inserts one activity row per feed owner in a single statement
func (r *PostgresActivityRepository) InsertAll(activities []models.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.db.Create(&activities).Error
}

// GetFeed retrieves a feed owner's activity rows in reverse chronological
// order, ties broken by id so pagination stays deterministic. Unknown users
// simply get an empty feed.
func (r *PostgresActivityRepository) GetFeed(userID uint, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// DeleteBySubject removes every activity row referencing a subject, across all
// feed owners
func (r *PostgresActivityRepository) DeleteBySubject(subjectType, subjectID string) error {
	return r.db.Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Delete(&models.Activity{}).Error
}

// DeleteBySubjectActorType removes one actor's rows of a given type for a
// subject, across all feed owners. Used when an action is undone (unlike)
// without the subject itself going away.
func (r *PostgresActivityRepository) DeleteBySubjectActorType(subjectType, subjectID string, actorID uint, activityType string) error {
	return r.db.Where("subject_type = ? AND subject_id = ? AND actor_id = ? AND type = ?",
		subjectType, subjectID, actorID, activityType).
		Delete(&models.Activity{}).Error
}

// CountBySubject counts activity rows referencing a subject
func (r *PostgresActivityRepository) CountBySubject(subjectType, subjectID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Activity{}).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Count(&count).Error
	return count, err
}
