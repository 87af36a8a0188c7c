package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openboard-dev/openboard/internal/model"
	"github.com/openboard-dev/openboard/internal/store"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	// Pragmas ride on the DSN so every pooled connection gets them; an
	// Exec would configure only the one connection it happens to grab.
	// busy_timeout serializes concurrent writers instead of failing
	// with SQLITE_BUSY.
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+"_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func applyMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, account, passwordHash string) (model.User, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (account, password_hash, created_at)
VALUES (?, ?, ?)
`, account, passwordHash, now.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, store.ErrDuplicateAccount
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Account: account, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (s *Store) FindUserByAccount(ctx context.Context, account string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, account, password_hash, created_at
FROM users
WHERE account = ?
`, account)
	var u model.User
	var created int64
	if err := row.Scan(&u.ID, &u.Account, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, err
	}
	u.CreatedAt = time.Unix(created, 0)
	return u, nil
}

func (s *Store) CreatePost(ctx context.Context, post *model.Post) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO posts (title, content, account_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`, post.Title, post.Content, post.AccountID, post.CreatedAt.Unix(), post.UpdatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetPost(ctx context.Context, id int64) (model.Post, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT p.id, p.title, p.content, p.account_id, u.account, p.created_at, p.updated_at
FROM posts p
LEFT JOIN users u ON u.id = p.account_id
WHERE p.id = ?
`, id)
	return scanPost(row)
}

func (s *Store) ListPosts(ctx context.Context, opts store.PostListOpts) ([]model.Post, error) {
	perPage := clamp(opts.PerPage, 1, 50)
	page := opts.Page
	if page < 0 {
		page = 0
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT p.id, p.title, p.content, p.account_id, u.account, p.created_at, p.updated_at
FROM posts p
LEFT JOIN users u ON u.id = p.account_id
ORDER BY p.id DESC
LIMIT ? OFFSET ?
`, perPage, page*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, title, content string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?
`, title, content, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		err = store.ErrNotFound
		return err
	}
	return tx.Commit()
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO comments (post_id, content, account_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`, comment.PostID, comment.Content, comment.AccountID, comment.CreatedAt.Unix(), comment.UpdatedAt.Unix())
	if err != nil {
		// A post deleted between the caller's existence check and the
		// insert trips the post_id foreign key; report it as the post
		// not being there.
		if isForeignKeyViolation(err) {
			return 0, store.ErrNotFound
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT c.id, c.post_id, c.content, c.account_id, u.account, c.created_at, c.updated_at
FROM comments c
LEFT JOIN users u ON u.id = c.account_id
WHERE c.id = ?
`, id)
	return scanComment(row)
}

func (s *Store) ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.id, c.post_id, c.content, c.account_id, u.account, c.created_at, c.updated_at
FROM comments c
LEFT JOIN users u ON u.id = c.account_id
WHERE c.post_id = ?
ORDER BY c.id ASC
`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) UpdateComment(ctx context.Context, id int64, content string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE comments SET content = ?, updated_at = ? WHERE id = ?
`, content, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanPost(scanner interface{ Scan(dest ...any) error }) (model.Post, error) {
	var p model.Post
	var account sql.NullString
	var created, updated int64
	if err := scanner.Scan(&p.ID, &p.Title, &p.Content, &p.AccountID, &account, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, store.ErrNotFound
		}
		return model.Post{}, err
	}
	if account.Valid {
		p.AccountName = account.String
	}
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return p, nil
}

func scanComment(scanner interface{ Scan(dest ...any) error }) (model.Comment, error) {
	var c model.Comment
	var account sql.NullString
	var created, updated int64
	if err := scanner.Scan(&c.ID, &c.PostID, &c.Content, &c.AccountID, &account, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, store.ErrNotFound
		}
		return model.Comment{}, err
	}
	if account.Valid {
		c.AccountName = account.String
	}
	c.CreatedAt = time.Unix(created, 0)
	c.UpdatedAt = time.Unix(updated, 0)
	return c, nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
