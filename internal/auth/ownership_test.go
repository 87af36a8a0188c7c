package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openboard-dev/openboard/internal/model"
)

func TestAuthorizeMutation(t *testing.T) {
	alice := model.Principal{Account: "alice", UserID: 1}
	bob := model.Principal{Account: "bob", UserID: 2}

	post := model.Post{ID: 10, AccountID: 1}
	comment := model.Comment{ID: 20, AccountID: 2}

	require.NoError(t, AuthorizeMutation(alice, post))
	require.ErrorIs(t, AuthorizeMutation(bob, post), ErrForbidden)

	require.NoError(t, AuthorizeMutation(bob, comment))
	require.ErrorIs(t, AuthorizeMutation(alice, comment), ErrForbidden)
}
