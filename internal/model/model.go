package model

import "time"

// User is a registered account. The password hash never leaves the
// server.
type User struct {
	ID           int64     `json:"id"`
	Account      string    `json:"account"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AccountID   int64     `json:"accountId"`
	AccountName string    `json:"account"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p Post) OwnerID() int64 { return p.AccountID }

type Comment struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"postId"`
	Content     string    `json:"content"`
	AccountID   int64     `json:"accountId"`
	AccountName string    `json:"account"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c Comment) OwnerID() int64 { return c.AccountID }

// Principal is the authenticated identity of a request. It is built
// from a verified token plus a user lookup and is never stored.
type Principal struct {
	Account string
	UserID  int64
}
