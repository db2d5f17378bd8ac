package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conduit/internal/domain"
)

type profileService struct {
	userRepo       domain.UserRepository
	followRepo     domain.FollowRepository
	contextTimeout time.Duration
}

// NewProfileService creates a ProfileService over the user and follow
// repositories.
func NewProfileService(userRepo domain.UserRepository, followRepo domain.FollowRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{
		userRepo:       userRepo,
		followRepo:     followRepo,
		contextTimeout: timeout,
	}
}

func (s *profileService) GetProfile(ctx context.Context, username, viewerID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}

	following := false
	if viewerID != "" && viewerID != target.ID {
		following, err = s.followRepo.Exists(ctx, viewerID, target.ID)
		if err != nil {
			return nil, fmt.Errorf("check follow state: %w", err)
		}
	}
	return profileOf(target, following), nil
}

// Follow inserts the (follower, target) edge. The self-follow check runs
// before the target lookup; following yourself returns ErrSelfFollow even
// when the edge already exists.
func (s *profileService) Follow(ctx context.Context, followerID, targetUsername string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get follower: %w", err)
	}
	if follower.Username == targetUsername {
		return nil, domain.ErrSelfFollow
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", targetUsername, err)
	}

	if err := s.followRepo.Add(ctx, follower.ID, target.ID); err != nil {
		if errors.Is(err, domain.ErrAlreadyFollowing) {
			return nil, domain.ErrAlreadyFollowing
		}
		return nil, fmt.Errorf("add follow edge: %w", err)
	}
	return profileOf(target, true), nil
}

func (s *profileService) Unfollow(ctx context.Context, followerID, targetUsername string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get follower: %w", err)
	}
	if follower.Username == targetUsername {
		return nil, domain.ErrSelfFollow
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", targetUsername, err)
	}

	if err := s.followRepo.Remove(ctx, follower.ID, target.ID); err != nil {
		if errors.Is(err, domain.ErrNotFollowing) {
			return nil, domain.ErrNotFollowing
		}
		return nil, fmt.Errorf("remove follow edge: %w", err)
	}
	return profileOf(target, false), nil
}

func profileOf(u *domain.User, following bool) *domain.Profile {
	return &domain.Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
