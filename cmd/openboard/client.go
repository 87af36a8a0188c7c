package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openboard-dev/openboard/internal/client"

	"github.com/urfave/cli/v2"
)

// cliConfig is the client-side state persisted between commands.
type cliConfig struct {
	BaseURL string `json:"base_url"`
	Account string `json:"account"`
	Token   string `json:"token"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".openboard.json"), nil
}

func loadCLIConfig() (cliConfig, error) {
	cfg := cliConfig{BaseURL: "http://localhost:8080"}
	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	return cfg, nil
}

func saveCLIConfig(cfg cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func apiClient(url string) (*client.Client, cliConfig, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, cfg, err
	}
	if url != "" {
		cfg.BaseURL = url
	}
	c := client.New(cfg.BaseURL)
	c.Token = cfg.Token
	return c, cfg, nil
}

func urlFlag(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "url",
		Usage:       "Server base URL",
		Destination: out,
	}
}

func registerCmd() *cli.Command {
	var url, account, password string
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and store the issued token",
		Flags: []cli.Flag{
			urlFlag(&url),
			&cli.StringFlag{Name: "account", Usage: "Account name", Destination: &account, Required: true},
			&cli.StringFlag{Name: "password", Usage: "Password", Destination: &password, Required: true},
		},
		Action: func(*cli.Context) error {
			c, cfg, err := apiClient(url)
			if err != nil {
				return err
			}
			token, err := c.Register(account, password)
			if err != nil {
				return err
			}
			cfg.Account = account
			cfg.Token = token
			if err := saveCLIConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("registered %s\n", account)
			return nil
		},
	}
}

func loginCmd() *cli.Command {
	var url, account, password string
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the issued token",
		Flags: []cli.Flag{
			urlFlag(&url),
			&cli.StringFlag{Name: "account", Usage: "Account name", Destination: &account, Required: true},
			&cli.StringFlag{Name: "password", Usage: "Password", Destination: &password, Required: true},
		},
		Action: func(*cli.Context) error {
			c, cfg, err := apiClient(url)
			if err != nil {
				return err
			}
			token, err := c.Login(account, password)
			if err != nil {
				return err
			}
			cfg.Account = account
			cfg.Token = token
			if err := saveCLIConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", account)
			return nil
		},
	}
}

func whoamiCmd() *cli.Command {
	var url string
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the authenticated account",
		Flags: []cli.Flag{urlFlag(&url)},
		Action: func(*cli.Context) error {
			c, _, err := apiClient(url)
			if err != nil {
				return err
			}
			account, err := c.Me()
			if err != nil {
				return err
			}
			fmt.Println(account)
			return nil
		},
	}
}

func postCmd() *cli.Command {
	var url, title, content string
	return &cli.Command{
		Name:  "post",
		Usage: "Create a post",
		Flags: []cli.Flag{
			urlFlag(&url),
			&cli.StringFlag{Name: "title", Usage: "Post title", Destination: &title, Required: true},
			&cli.StringFlag{Name: "content", Usage: "Post content", Destination: &content, Required: true},
		},
		Action: func(*cli.Context) error {
			c, _, err := apiClient(url)
			if err != nil {
				return err
			}
			post, err := c.CreatePost(title, content)
			if err != nil {
				return err
			}
			fmt.Printf("created post %d\n", post.ID)
			return nil
		},
	}
}

func postsCmd() *cli.Command {
	var url string
	var page int
	return &cli.Command{
		Name:  "posts",
		Usage: "List posts",
		Flags: []cli.Flag{
			urlFlag(&url),
			&cli.IntFlag{Name: "page", Usage: "Page number (0-based)", Destination: &page},
		},
		Action: func(*cli.Context) error {
			c, _, err := apiClient(url)
			if err != nil {
				return err
			}
			posts, err := c.ListPosts(page)
			if err != nil {
				return err
			}
			for _, p := range posts {
				fmt.Printf("%d\t%s\t%s\n", p.ID, p.AccountName, p.Title)
			}
			return nil
		},
	}
}

func commentCmd() *cli.Command {
	var url, content string
	var postID int64
	return &cli.Command{
		Name:  "comment",
		Usage: "Comment on a post",
		Flags: []cli.Flag{
			urlFlag(&url),
			&cli.Int64Flag{Name: "post", Usage: "Post id", Destination: &postID, Required: true},
			&cli.StringFlag{Name: "content", Usage: "Comment content", Destination: &content, Required: true},
		},
		Action: func(*cli.Context) error {
			c, _, err := apiClient(url)
			if err != nil {
				return err
			}
			comment, err := c.CreateComment(postID, content)
			if err != nil {
				return err
			}
			fmt.Printf("created comment %d\n", comment.ID)
			return nil
		},
	}
}

func commentsCmd() *cli.Command {
	var url string
	var postID int64
	return &cli.Command{
		Name:  "comments",
		Usage: "List comments on a post",
		Flags: []cli.Flag{
			urlFlag(&url),
			&cli.Int64Flag{Name: "post", Usage: "Post id", Destination: &postID, Required: true},
		},
		Action: func(*cli.Context) error {
			c, _, err := apiClient(url)
			if err != nil {
				return err
			}
			comments, err := c.ListComments(postID)
			if err != nil {
				return err
			}
			for _, cc := range comments {
				fmt.Printf("%d\t%s\t%s\n", cc.ID, cc.AccountName, cc.Content)
			}
			return nil
		},
	}
}

func deletePostCmd() *cli.Command {
	var url string
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one of your posts",
		ArgsUsage: "<post-id>",
		Flags:     []cli.Flag{urlFlag(&url)},
		Action: func(ctx *cli.Context) error {
			id, err := parseIDArg(ctx)
			if err != nil {
				return err
			}
			c, _, err := apiClient(url)
			if err != nil {
				return err
			}
			if _, err := c.DeletePost(id); err != nil {
				return err
			}
			fmt.Printf("deleted post %d\n", id)
			return nil
		},
	}
}

func deleteCommentCmd() *cli.Command {
	var url string
	return &cli.Command{
		Name:      "delete-comment",
		Usage:     "Delete one of your comments",
		ArgsUsage: "<comment-id>",
		Flags:     []cli.Flag{urlFlag(&url)},
		Action: func(ctx *cli.Context) error {
			id, err := parseIDArg(ctx)
			if err != nil {
				return err
			}
			c, _, err := apiClient(url)
			if err != nil {
				return err
			}
			if _, err := c.DeleteComment(id); err != nil {
				return err
			}
			fmt.Printf("deleted comment %d\n", id)
			return nil
		},
	}
}

func parseIDArg(ctx *cli.Context) (int64, error) {
	if ctx.NArg() != 1 {
		return 0, errors.New("expected exactly one id argument")
	}
	var id int64
	if _, err := fmt.Sscanf(ctx.Args().First(), "%d", &id); err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
