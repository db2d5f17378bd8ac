package domain

import "context"

// UserRegisteredEvent is published after a successful registration.
type UserRegisteredEvent struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ArticlePublishedEvent is published after an article is created.
type ArticlePublishedEvent struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	AuthorID string   `json:"author_id"`
	TagList  []string `json:"tag_list,omitempty"`
}

// EventPublisher emits domain events to interested consumers
// (infrastructure port). Publishing is best-effort: callers log failures
// and move on rather than failing the request.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event *UserRegisteredEvent) error
	PublishArticlePublished(ctx context.Context, event *ArticlePublishedEvent) error
	Close()
}
