package httpapp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openboard-dev/openboard/internal/auth"
	"github.com/openboard-dev/openboard/internal/config"
	"github.com/openboard-dev/openboard/internal/store/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec([]byte("test-secret"), time.Hour)
	return NewServer(st, auth.NewService(st, hasher, codec), config.Config{RequestTimeout: 5 * time.Second})
}

// request performs a raw call against the server and decodes the JSON
// response, for tests that need values out of a previous step.
func request(t *testing.T, srv *Server, method, path, token, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	payload := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec.Code, payload
}

func registerToken(t *testing.T, srv *Server, account, password string) string {
	t.Helper()
	status, payload := request(t, srv, http.MethodPost, "/api/users", "",
		fmt.Sprintf(`{"account":%q,"password":%q}`, account, password))
	require.Equal(t, http.StatusOK, status)

	var token string
	require.NoError(t, json.Unmarshal(payload["token"], &token))
	require.NotEmpty(t, token)
	return token
}

func createPost(t *testing.T, srv *Server, token, title, content string) int64 {
	t.Helper()
	status, payload := request(t, srv, http.MethodPost, "/api/posts", token,
		fmt.Sprintf(`{"title":%q,"content":%q}`, title, content))
	require.Equal(t, http.StatusOK, status)

	var post struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload["post"], &post))
	require.Positive(t, post.ID)
	return post.ID
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	apitest.New().Handler(srv).
		Post("/api/users").
		JSON(`{"account":"alice","password":"secret1"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		End()

	apitest.New().Handler(srv).
		Post("/api/users").
		JSON(`{"account":"","password":"secret1"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "missing account or password")).
		End()

	apitest.New().Handler(srv).
		Post("/api/users").
		JSON(`{"account":"alice","password":"other"}`).
		Expect(t).
		Status(http.StatusConflict).
		Assert(jsonpath.Equal("$.error", "account already exists")).
		End()
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registerToken(t, srv, "alice", "secret1")

	apitest.New().Handler(srv).
		Post("/api/auth").
		JSON(`{"account":"alice","password":"wrongpass"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "incorrect password")).
		End()

	apitest.New().Handler(srv).
		Post("/api/auth").
		JSON(`{"account":"nobody","password":"secret1"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "unknown account")).
		End()

	apitest.New().Handler(srv).
		Post("/api/auth").
		JSON(`{"account":"alice","password":"secret1"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		End()
}

func TestMeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerToken(t, srv, "alice", "secret1")

	apitest.New().Handler(srv).
		Get("/api/users/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "missing bearer token")).
		End()

	apitest.New().Handler(srv).
		Get("/api/users/me").
		Header("Authorization", "Bearer garbage").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "malformed token")).
		End()

	apitest.New().Handler(srv).
		Get("/api/users/me").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.user.account", "alice")).
		End()
}

func TestPostEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := registerToken(t, srv, "alice", "secret1")

	apitest.New().Handler(srv).
		Post("/api/posts").
		JSON(`{"title":"hello","content":"world"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.New().Handler(srv).
		Post("/api/posts").
		Header("Authorization", "Bearer "+token).
		JSON(`{"title":"","content":"world"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "missing title or content")).
		End()

	id := createPost(t, srv, token, "hello", "world")

	apitest.New().Handler(srv).
		Get(fmt.Sprintf("/api/posts/%d", id)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.post.title", "hello")).
		Assert(jsonpath.Equal("$.post.account", "alice")).
		End()

	apitest.New().Handler(srv).
		Get("/api/posts").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "missing page")).
		End()

	apitest.New().Handler(srv).
		Get("/api/posts").
		Query("page", "0").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$.posts", 1)).
		End()

	apitest.New().Handler(srv).
		Get("/api/posts/count").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.count", float64(1))).
		End()

	apitest.New().Handler(srv).
		Get("/api/posts/999").
		Expect(t).
		Status(http.StatusNotFound).
		End()

	apitest.New().Handler(srv).
		Get("/api/posts/abc").
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestUpdatePostKeepsOmittedFields(t *testing.T) {
	srv := newTestServer(t)
	token := registerToken(t, srv, "alice", "secret1")
	id := createPost(t, srv, token, "hello", "world")

	apitest.New().Handler(srv).
		Put(fmt.Sprintf("/api/posts/%d", id)).
		Header("Authorization", "Bearer "+token).
		JSON(`{"title":"renamed"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.post.title", "renamed")).
		Assert(jsonpath.Equal("$.post.content", "world")).
		End()

	apitest.New().Handler(srv).
		Put(fmt.Sprintf("/api/posts/%d", id)).
		Header("Authorization", "Bearer "+token).
		JSON(`{}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "missing title and content")).
		End()
}

func TestPostOwnership(t *testing.T) {
	srv := newTestServer(t)
	alice := registerToken(t, srv, "alice", "secret1")
	bob := registerToken(t, srv, "bob", "secret2")
	id := createPost(t, srv, alice, "mine", "hands off")

	apitest.New().Handler(srv).
		Put(fmt.Sprintf("/api/posts/%d", id)).
		Header("Authorization", "Bearer "+bob).
		JSON(`{"title":"stolen"}`).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "forbidden")).
		End()

	apitest.New().Handler(srv).
		Delete(fmt.Sprintf("/api/posts/%d", id)).
		Header("Authorization", "Bearer "+bob).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "forbidden")).
		End()

	apitest.New().Handler(srv).
		Delete(fmt.Sprintf("/api/posts/%d", id)).
		Header("Authorization", "Bearer "+alice).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.post.title", "mine")).
		End()

	apitest.New().Handler(srv).
		Get(fmt.Sprintf("/api/posts/%d", id)).
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestCommentEndpoints(t *testing.T) {
	srv := newTestServer(t)
	alice := registerToken(t, srv, "alice", "secret1")
	bob := registerToken(t, srv, "bob", "secret2")
	postID := createPost(t, srv, alice, "discussion", "talk here")

	apitest.New().Handler(srv).
		Post("/api/comments").
		Header("Authorization", "Bearer "+bob).
		JSON(`{"content":"orphan","postId":999}`).
		Expect(t).
		Status(http.StatusNotFound).
		End()

	status, payload := request(t, srv, http.MethodPost, "/api/comments", bob,
		fmt.Sprintf(`{"content":"nice post","postId":%d}`, postID))
	require.Equal(t, http.StatusOK, status)
	var comment struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload["comment"], &comment))

	apitest.New().Handler(srv).
		Get("/api/comments").
		Query("postId", fmt.Sprint(postID)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$.comments", 1)).
		Assert(jsonpath.Equal("$.comments[0].account", "bob")).
		End()

	apitest.New().Handler(srv).
		Get(fmt.Sprintf("/api/comments/%d", comment.ID)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.comment.content", "nice post")).
		End()

	apitest.New().Handler(srv).
		Put(fmt.Sprintf("/api/comments/%d", comment.ID)).
		Header("Authorization", "Bearer "+alice).
		JSON(`{"content":"edited by alice"}`).
		Expect(t).
		Status(http.StatusForbidden).
		End()

	apitest.New().Handler(srv).
		Put(fmt.Sprintf("/api/comments/%d", comment.ID)).
		Header("Authorization", "Bearer "+bob).
		JSON(`{"content":"edited"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.comment.content", "edited")).
		End()

	apitest.New().Handler(srv).
		Delete(fmt.Sprintf("/api/comments/%d", comment.ID)).
		Header("Authorization", "Bearer "+alice).
		Expect(t).
		Status(http.StatusForbidden).
		End()

	apitest.New().Handler(srv).
		Delete(fmt.Sprintf("/api/comments/%d", comment.ID)).
		Header("Authorization", "Bearer "+bob).
		Expect(t).
		Status(http.StatusOK).
		End()
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	apitest.New().Handler(srv).
		Get("/api/nope").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.error", "not found")).
		End()

	apitest.New().Handler(srv).
		Patch("/api/posts/1").
		Expect(t).
		Status(http.StatusMethodNotAllowed).
		End()
}
