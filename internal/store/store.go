package store

import (
	"context"
	"errors"

	"github.com/openboard-dev/openboard/internal/model"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateAccount = errors.New("duplicate account")
)

type PostListOpts struct {
	Page    int
	PerPage int
}

type Store interface {
	UserStore
	PostStore
	CommentStore
	Close() error
}

// UserStore is the credential store consumed by the auth service.
// Account uniqueness is enforced at the storage layer: CreateUser
// returns ErrDuplicateAccount on conflict, which makes registration
// atomic even under concurrent callers.
type UserStore interface {
	CreateUser(ctx context.Context, account, passwordHash string) (model.User, error)
	FindUserByAccount(ctx context.Context, account string) (model.User, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) (int64, error)
	GetPost(ctx context.Context, id int64) (model.Post, error)
	ListPosts(ctx context.Context, opts PostListOpts) ([]model.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	UpdatePost(ctx context.Context, id int64, title, content string) error
	DeletePost(ctx context.Context, id int64) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) (int64, error)
	GetComment(ctx context.Context, id int64) (model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) error
	DeleteComment(ctx context.Context, id int64) error
}
