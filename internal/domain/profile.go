package domain

import (
	"context"
	"errors"
)

// Sentinel errors for follow transitions.
var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// Profile is the public view of a user: bio, image, and whether the
// requesting viewer follows them. Anonymous viewers always see
// following=false.
// swagger:model Profile
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// FollowRepository defines storage for directed follow edges between users.
// An edge is unique per ordered (follower, followee) pair.
type FollowRepository interface {
	Add(ctx context.Context, followerID, followeeID string) error
	Remove(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFolloweeIDs(ctx context.Context, followerID string) ([]string, error)
}

// ProfileService defines profile lookups and the follow/unfollow
// transitions. viewerID and followerID are empty for anonymous requests.
type ProfileService interface {
	GetProfile(ctx context.Context, username, viewerID string) (*Profile, error)
	Follow(ctx context.Context, followerID, targetUsername string) (*Profile, error)
	Unfollow(ctx context.Context, followerID, targetUsername string) (*Profile, error)
}
