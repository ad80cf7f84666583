package posts_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/entity/entitytest"
	"github.com/meridian-travel/meridian/internal/posts"
	"github.com/meridian-travel/meridian/internal/shared"
)

func newPostService(t *testing.T) (*posts.Service, *entitytest.MemStore[posts.Post, *posts.Post]) {
	t.Helper()
	store := entitytest.NewMemStore[posts.Post, *posts.Post]()
	store.Match = func(p *posts.Post, filter entity.Filter) bool {
		for _, c := range filter.Clauses {
			switch c.Column {
			case "slug":
				if p.Slug != c.Value {
					return false
				}
			case "status":
				if p.Status != c.Value {
					return false
				}
			}
		}
		return true
	}
	svc := posts.NewService(posts.Deps{
		Store:     store,
		Access:    access.NewEvaluator(),
		Validator: validator.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, store
}

func author() shared.Actor {
	return shared.Actor{
		ID:   uuid.New(),
		Role: shared.RoleMember,
		Permissions: []string{
			shared.Permission(shared.EntityPost, shared.OpCreate),
		},
	}
}

func TestCreateStartsPendingWithDerivedSlug(t *testing.T) {
	svc, _ := newPostService(t)

	p, err := svc.Create(context.Background(), author(), posts.CreateInput{
		Title: "Hidden Beaches of the North Coast",
		Body:  "Pack a windbreaker.",
	})
	require.NoError(t, err)
	require.Equal(t, posts.StatusPending, p.Status)
	require.Equal(t, "hidden-beaches-of-the-north-coast", p.Slug)
	require.Equal(t, shared.VisibilityDraft, p.Visibility())
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, author(), posts.CreateInput{Title: "Winter Markets", Body: "a"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, author(), posts.CreateInput{Title: "Winter Markets", Body: "b"})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	require.Contains(t, err.Error(), "slug already in use")
}

func TestOwnerCannotChangeModerationStatus(t *testing.T) {
	svc, store := newPostService(t)
	ctx := context.Background()
	writer := author()

	p, err := svc.Create(ctx, writer, posts.CreateInput{Title: "Winter Markets", Body: "a"})
	require.NoError(t, err)

	approved := posts.StatusApproved
	_, err = svc.Update(ctx, writer, p.EntityMeta().ID, posts.UpdateInput{Status: &approved})
	require.Equal(t, shared.CodeForbidden, shared.CodeOf(err))

	stored, ok := store.Get(p.EntityMeta().ID)
	require.True(t, ok)
	require.Equal(t, posts.StatusPending, stored.Status)
}

func TestOwnerEditsBodyWithoutTouchingStatus(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()
	writer := author()

	p, err := svc.Create(ctx, writer, posts.CreateInput{Title: "Winter Markets", Body: "a"})
	require.NoError(t, err)

	body := "Bring cash, most stalls do not take cards."
	updated, err := svc.Update(ctx, writer, p.EntityMeta().ID, posts.UpdateInput{Body: &body})
	require.NoError(t, err)
	require.Equal(t, body, updated.Body)
	require.Equal(t, posts.StatusPending, updated.Status)
}

func TestModeratorApprovesPost(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, author(), posts.CreateInput{Title: "Winter Markets", Body: "a"})
	require.NoError(t, err)

	moderator := shared.Actor{
		ID:   uuid.New(),
		Role: shared.RoleEditor,
		Permissions: []string{
			shared.Permission(shared.EntityPost, shared.OpUpdate),
			shared.PermPostModerate,
		},
	}
	approved := posts.StatusApproved
	updated, err := svc.Update(ctx, moderator, p.EntityMeta().ID, posts.UpdateInput{Status: &approved})
	require.NoError(t, err)
	require.Equal(t, posts.StatusApproved, updated.Status)
}

func TestAdminBypassesModerationPermission(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, author(), posts.CreateInput{Title: "Winter Markets", Body: "a"})
	require.NoError(t, err)

	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
	rejected := posts.StatusRejected
	updated, err := svc.Update(ctx, admin, p.EntityMeta().ID, posts.UpdateInput{Status: &rejected})
	require.NoError(t, err)
	require.Equal(t, posts.StatusRejected, updated.Status)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()
	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}

	for _, title := range []string{"One", "Two"} {
		_, err := svc.Create(ctx, admin, posts.CreateInput{Title: title, Body: "x"})
		require.NoError(t, err)
	}

	items, page, err := svc.List(ctx, admin, posts.SearchInput{Status: posts.StatusPending})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 2, page.Total)

	items, _, err = svc.List(ctx, admin, posts.SearchInput{Status: posts.StatusApproved})
	require.NoError(t, err)
	require.Empty(t, items)
}
