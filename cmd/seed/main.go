// Command seed fills a running OpenBoard server with demo accounts,
// posts and comments.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/openboard-dev/openboard/internal/client"
)

var users = []struct {
	account  string
	password string
}{
	{"alice", "alice-demo-pass"},
	{"bob", "bob-demo-pass"},
	{"carol", "carol-demo-pass"},
	{"dave", "dave-demo-pass"},
}

var posts = []struct {
	title   string
	content string
}{
	{"Welcome to the board", "Say hi and introduce yourself."},
	{"What are you reading this week?", "Books, papers, long-form articles, anything goes."},
	{"Show: my weekend project", "Built a tiny static site generator. Happy to share the code."},
	{"Tips for remote pairing?", "Looking for tools and habits that actually work."},
	{"Favorite terminal setup", "Post your shell, editor, and the one alias you cannot live without."},
	{"Monthly photo thread", "Share one photo you took this month."},
}

var comments = []string{
	"Nice one, thanks for sharing.",
	"I had the exact same question last week.",
	"Could you expand on the second point?",
	"Bookmarked, will try this tonight.",
	"Counterpoint: it depends on the team size.",
	"This thread delivers.",
	"Adding my two cents: start small.",
	"Great write-up!",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "OpenBoard server URL")
	flag.Parse()

	log.Printf("Seeding board at %s...", *baseURL)

	var clients []*client.Client
	for _, u := range users {
		c := client.New(*baseURL)
		if _, err := c.Register(u.account, u.password); err != nil {
			// Already seeded once; log in instead.
			if _, err := c.Login(u.account, u.password); err != nil {
				log.Fatalf("register/login %s: %v", u.account, err)
			}
		}
		log.Printf("ready: %s", u.account)
		clients = append(clients, c)
	}

	for i, p := range posts {
		author := clients[i%len(clients)]
		post, err := author.CreatePost(p.title, p.content)
		if err != nil {
			log.Fatalf("create post %q: %v", p.title, err)
		}
		n := 1 + rand.Intn(3)
		for j := 0; j < n; j++ {
			commenter := clients[rand.Intn(len(clients))]
			text := comments[rand.Intn(len(comments))]
			if _, err := commenter.CreateComment(post.ID, text); err != nil {
				log.Fatalf("comment on post %d: %v", post.ID, err)
			}
		}
		log.Printf("seeded post %d with %d comments", post.ID, n)
	}

	log.Println("Done.")
}
