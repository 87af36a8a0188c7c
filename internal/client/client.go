// Package client provides a Go client for the OpenBoard API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openboard-dev/openboard/internal/model"
)

// Client is an OpenBoard API client. Token, once set, is sent as a
// bearer credential on every request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Register creates an account and stores the returned token on the
// client.
func (c *Client) Register(account, password string) (string, error) {
	return c.obtainToken("/api/users", account, password)
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(account, password string) (string, error) {
	return c.obtainToken("/api/auth", account, password)
}

func (c *Client) obtainToken(path, account, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	err := c.do(http.MethodPost, path, map[string]string{
		"account":  account,
		"password": password,
	}, &result)
	if err != nil {
		return "", err
	}
	c.Token = result.Token
	return result.Token, nil
}

// Me returns the account name of the authenticated caller.
func (c *Client) Me() (string, error) {
	var result struct {
		User struct {
			Account string `json:"account"`
		} `json:"user"`
	}
	if err := c.do(http.MethodGet, "/api/users/me", nil, &result); err != nil {
		return "", err
	}
	return result.User.Account, nil
}

func (c *Client) CreatePost(title, content string) (model.Post, error) {
	var result struct {
		Post model.Post `json:"post"`
	}
	err := c.do(http.MethodPost, "/api/posts", map[string]string{
		"title":   title,
		"content": content,
	}, &result)
	return result.Post, err
}

func (c *Client) GetPost(id int64) (model.Post, error) {
	var result struct {
		Post model.Post `json:"post"`
	}
	err := c.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &result)
	return result.Post, err
}

func (c *Client) ListPosts(page int) ([]model.Post, error) {
	var result struct {
		Posts []model.Post `json:"posts"`
	}
	err := c.do(http.MethodGet, fmt.Sprintf("/api/posts?page=%d", page), nil, &result)
	return result.Posts, err
}

func (c *Client) CountPosts() (int64, error) {
	var result struct {
		Count int64 `json:"count"`
	}
	err := c.do(http.MethodGet, "/api/posts/count", nil, &result)
	return result.Count, err
}

func (c *Client) UpdatePost(id int64, title, content string) (model.Post, error) {
	var result struct {
		Post model.Post `json:"post"`
	}
	err := c.do(http.MethodPut, fmt.Sprintf("/api/posts/%d", id), map[string]string{
		"title":   title,
		"content": content,
	}, &result)
	return result.Post, err
}

func (c *Client) DeletePost(id int64) (model.Post, error) {
	var result struct {
		Post model.Post `json:"post"`
	}
	err := c.do(http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, &result)
	return result.Post, err
}

func (c *Client) CreateComment(postID int64, content string) (model.Comment, error) {
	var result struct {
		Comment model.Comment `json:"comment"`
	}
	err := c.do(http.MethodPost, "/api/comments", map[string]any{
		"postId":  postID,
		"content": content,
	}, &result)
	return result.Comment, err
}

func (c *Client) ListComments(postID int64) ([]model.Comment, error) {
	var result struct {
		Comments []model.Comment `json:"comments"`
	}
	err := c.do(http.MethodGet, fmt.Sprintf("/api/comments?postId=%d", postID), nil, &result)
	return result.Comments, err
}

func (c *Client) UpdateComment(id int64, content string) (model.Comment, error) {
	var result struct {
		Comment model.Comment `json:"comment"`
	}
	err := c.do(http.MethodPut, fmt.Sprintf("/api/comments/%d", id), map[string]string{
		"content": content,
	}, &result)
	return result.Comment, err
}

func (c *Client) DeleteComment(id int64) (model.Comment, error) {
	var result struct {
		Comment model.Comment `json:"comment"`
	}
	err := c.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), nil, &result)
	return result.Comment, err
}

func (c *Client) do(method, path string, body, dest any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
