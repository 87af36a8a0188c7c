package httpapp_test

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openboard-dev/openboard/internal/auth"
	"github.com/openboard-dev/openboard/internal/client"
	"github.com/openboard-dev/openboard/internal/config"
	httpapp "github.com/openboard-dev/openboard/internal/http"
	"github.com/openboard-dev/openboard/internal/store/sqlite"
)

const testSecret = "test-secret"

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec([]byte(testSecret), time.Hour)
	srv := httptest.NewServer(httpapp.NewServer(st, auth.NewService(st, hasher, codec), config.Config{RequestTimeout: 5 * time.Second}))
	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
	})
	return srv
}

// The canonical two-user walkthrough: register, fail a login, log in,
// publish, and have ownership keep the second user out.
func TestTwoUserWalkthrough(t *testing.T) {
	srv := startServer(t)
	codec := auth.NewTokenCodec([]byte(testSecret), time.Hour)

	alice := client.New(srv.URL)
	registered, err := alice.Register("alice", "secret1")
	require.NoError(t, err)
	claims, err := codec.Verify(registered)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Account)

	_, err = alice.Login("alice", "wrongpass")
	require.EqualError(t, err, "incorrect password")

	logged, err := alice.Login("alice", "secret1")
	require.NoError(t, err)
	claims, err = codec.Verify(logged)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Account)

	account, err := alice.Me()
	require.NoError(t, err)
	require.Equal(t, "alice", account)

	post, err := alice.CreatePost("hello", "first post")
	require.NoError(t, err)
	require.Positive(t, post.ID)
	require.Equal(t, "alice", post.AccountName)

	bob := client.New(srv.URL)
	_, err = bob.Register("bob", "secret2")
	require.NoError(t, err)

	_, err = bob.DeletePost(post.ID)
	require.EqualError(t, err, "forbidden")
	_, err = bob.UpdatePost(post.ID, "stolen", "")
	require.EqualError(t, err, "forbidden")

	comment, err := bob.CreateComment(post.ID, "nice post")
	require.NoError(t, err)
	_, err = alice.UpdateComment(comment.ID, "edited by alice")
	require.EqualError(t, err, "forbidden")

	deleted, err := alice.DeletePost(post.ID)
	require.NoError(t, err)
	require.Equal(t, post.ID, deleted.ID)

	_, err = alice.GetPost(post.ID)
	require.EqualError(t, err, "not found")
	comments, err := alice.ListComments(post.ID)
	require.NoError(t, err)
	require.Empty(t, comments)
}

func TestUnauthenticatedRequests(t *testing.T) {
	srv := startServer(t)

	anon := client.New(srv.URL)
	_, err := anon.CreatePost("hello", "world")
	require.EqualError(t, err, "missing bearer token")
	_, err = anon.Me()
	require.EqualError(t, err, "missing bearer token")

	anon.Token = "garbage"
	_, err = anon.Me()
	require.EqualError(t, err, "malformed token")

	forged := auth.NewTokenCodec([]byte("wrong-secret"), time.Hour)
	anon.Token, err = forged.Issue("alice")
	require.NoError(t, err)
	_, err = anon.Me()
	require.EqualError(t, err, "invalid token signature")
}

func TestPaginationAndCount(t *testing.T) {
	srv := startServer(t)

	alice := client.New(srv.URL)
	_, err := alice.Register("alice", "secret1")
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := alice.CreatePost(fmt.Sprintf("post %d", i), "content")
		require.NoError(t, err)
	}

	count, err := alice.CountPosts()
	require.NoError(t, err)
	require.EqualValues(t, 12, count)

	first, err := alice.ListPosts(0)
	require.NoError(t, err)
	require.Len(t, first, 10)
	require.Equal(t, "post 11", first[0].Title)

	second, err := alice.ListPosts(1)
	require.NoError(t, err)
	require.Len(t, second, 2)
}
