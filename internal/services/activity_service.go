package services

import (
	"context"
	"errors"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"gorm.io/gorm"
)

// FeedEntry is one rendered activity: the raw row plus the resolved actor and
// subject.
type FeedEntry struct {
	Activity models.Activity    `json:"activity"`
	Actor    models.UserCompact `json:"actor"`
	Subject  any                `json:"subject,omitempty"`

	// subject visibility fields, carried so the handler can apply the
	// visibility evaluator without re-resolving the subject
	protected Protected
}

// SubjectProtection returns the Protected view of the resolved subject, or nil
// when the subject carries no privacy (then the entry is always renderable).
func (e *FeedEntry) SubjectProtection() Protected { return e.protected }

// ActivityService is the write-time fan-out engine, the feed reader and the
// activity lifecycle manager in one place. Fan-out is synchronous and
// write-amplifying: one action inserts one row per friend of the actor plus
// the actor's own feed, all in a single bulk insert on the request path.
type ActivityService struct {
	activities  repositories.ActivityRepository
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
	subjects    *SubjectRegistry
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	activities repositories.ActivityRepository,
	friendships repositories.FriendshipRepository,
	users repositories.UserRepository,
	subjects *SubjectRegistry,
) *ActivityService {
	return &ActivityService{
		activities:  activities,
		friendships: friendships,
		users:       users,
		subjects:    subjects,
	}
}

// RecordActivity fans one action out to the feeds of the actor and every
// accepted friend of the actor. data is the caller's preview snapshot, taken
// at event time and stored verbatim; it is never re-derived from the subject.
// Callers invoke this only after the subject row is durably created.
func (s *ActivityService) RecordActivity(ctx context.Context, actorID uint, activityType, subjectType, subjectID string, data map[string]string) error {
	friendIDs, err := s.friendships.GetFriendIDs(actorID)
	if err != nil {
		return err
	}

	targets := append(friendIDs, actorID)
	activities := make([]models.Activity, 0, len(targets))
	for _, target := range targets {
		activities = append(activities, models.Activity{
			UserID:      target,
			ActorID:     actorID,
			Type:        activityType,
			SubjectType: subjectType,
			SubjectID:   subjectID,
			Data:        data,
		})
	}

	return s.activities.InsertAll(activities)
}

// GetFeed reads a feed owner's activities newest-first, resolving the actor
// and subject of each row. Activities whose subject or actor is gone (deleted
// through a path the lifecycle manager never saw) are skipped silently;
// storage faults during resolution fail the whole read. Visibility of
// the resolved subjects is the caller's concern; the feed index itself does
// not enforce it.
func (s *ActivityService) GetFeed(ctx context.Context, userID uint, limit int) ([]FeedEntry, error) {
	activities, err := s.activities.GetFeed(userID, limit)
	if err != nil {
		return nil, err
	}

	actorCache := make(map[uint]models.UserCompact)
	entries := make([]FeedEntry, 0, len(activities))
	for _, activity := range activities {
		subject, err := s.subjects.Resolve(ctx, activity.SubjectType, activity.SubjectID)
		if err != nil {
			if errors.Is(err, ErrSubjectGone) {
				continue
			}
			return nil, err
		}

		actor, ok := actorCache[activity.ActorID]
		if !ok {
			user, err := s.users.GetUserByID(activity.ActorID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Actor account removed; the row is unrenderable.
					continue
				}
				return nil, err
			}
			actor = user.ToCompact()
			actorCache[activity.ActorID] = actor
		}

		entries = append(entries, FeedEntry{
			Activity:  activity,
			Actor:     actor,
			Subject:   subject.Payload,
			protected: subject.Protected,
		})
	}
	return entries, nil
}

// OnSubjectDeleted removes every activity row referencing a subject, for all
// feed owners. It runs synchronously as part of the same logical deletion as
// the subject so no feed keeps pointing at missing content.
func (s *ActivityService) OnSubjectDeleted(ctx context.Context, subjectType, subjectID string) error {
	return s.activities.DeleteBySubject(subjectType, subjectID)
}

// OnActionUndone removes one actor's activity rows of a given type for a
// subject. Used when an action is reversed (a like removed) while the subject
// itself lives on.
func (s *ActivityService) OnActionUndone(ctx context.Context, actorID uint, activityType, subjectType, subjectID string) error {
	return s.activities.DeleteBySubjectActorType(subjectType, subjectID, actorID, activityType)
}
