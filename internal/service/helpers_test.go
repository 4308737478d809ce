package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/access"
	apperrors "reviewhub/internal/errors"
)

var (
	anonymous = access.Anonymous
	alice     = access.Identity{UserID: 1, Username: "alice", Level: access.LevelUser}
	bob       = access.Identity{UserID: 2, Username: "bob", Level: access.LevelUser}
	moderator = access.Identity{UserID: 3, Username: "mod", Level: access.LevelModerator}
	admin     = access.Identity{UserID: 4, Username: "root", Level: access.LevelAdmin}
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// requireKind asserts err is a domain error of kind and returns it.
func requireKind(t *testing.T, err error, kind apperrors.Kind) *apperrors.Error {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, kind, domainErr.Kind, domainErr.Error())
	return domainErr
}
