package service

import (
	"context"
	"log"

	"chirper/internal/model"
	"chirper/internal/queue"
	"chirper/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	publisher  queue.Publisher
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		publisher:  publisher,
	}
}

// FollowUnfollow toggles the follow edge from actor to target. Following
// notifies the target; unfollowing is silent. Returns true when the call
// resulted in a follow.
func (s *FollowService) FollowUnfollow(ctx context.Context, actorID, targetID int64) (following bool, err error) {
	if actorID == targetID {
		return false, model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	exists, err := s.followRepo.Exists(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.followRepo.Unfollow(ctx, actorID, targetID); err != nil {
			return false, err
		}
		s.publish(ctx, queue.NewUserUnfollowedEvent(actorID, targetID))
		return false, nil
	}

	if _, err := s.followRepo.Follow(ctx, actorID, targetID); err != nil {
		return false, err
	}

	if err := s.notifier.Notify(ctx, actorID, targetID, model.NotificationTypeFollow); err != nil {
		return false, err
	}

	s.publish(ctx, queue.NewUserFollowedEvent(actorID, targetID))
	return true, nil
}

// publish sends a feed event after the write commits. Publish failures are
// logged, not surfaced; the feed cache self-heals on the next DB read.
func (s *FollowService) publish(ctx context.Context, event queue.FeedEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamFeed, event); err != nil {
		log.Printf("[FollowService] publish %s failed: %v", event.Type, err)
	}
}
