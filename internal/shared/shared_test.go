package shared

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Café São João":      "cafe-sao-joao",
		"  Hidden  Beaches ": "hidden-beaches",
		"Ünïcode--Dashes":    "unicode-dashes",
		"!!!":                "",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{}.Normalize()
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PageSize)
	require.Equal(t, 0, p.Offset())

	p = PageRequest{Page: 3, PageSize: 10}.Normalize()
	require.Equal(t, 20, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 10, 25)
	require.Equal(t, 25, pg.Total)
	require.Equal(t, 3, pg.TotalPages)

	pg = NewPagination(1, 10, 0)
	require.Equal(t, 0, pg.TotalPages)
}

func TestPermissionNaming(t *testing.T) {
	require.Equal(t, "destination.update", Permission(EntityDestination, OpUpdate))
	// Tombstone operations share the delete permission; count shares list.
	require.Equal(t, "post.delete", Permission(EntityPost, OpRestore))
	require.Equal(t, "post.delete", Permission(EntityPost, OpPurge))
	require.Equal(t, "event.list", Permission(EntityEvent, OpCount))
}

func TestActorPermissions(t *testing.T) {
	a := Actor{ID: uuid.New(), Role: RoleMember, Permissions: []string{"post.create"}}
	require.True(t, a.HasPermission("post.create"))
	require.False(t, a.HasPermission("post.delete"))
	require.False(t, a.IsAnonymous())
	require.True(t, Anonymous().IsAnonymous())
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeNotFound, CodeOf(NotFoundError("gone")))
	require.Equal(t, CodeInternal, CodeOf(errors.New("plain")))

	wrapped := InternalError(errors.New("pool closed"))
	require.Equal(t, CodeInternal, CodeOf(wrapped))
}
