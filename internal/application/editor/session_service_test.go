package editor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	funnelapp "github.com/lumio/backend/internal/application/funnel"
	"github.com/lumio/backend/internal/domain/editor"
	"github.com/lumio/backend/internal/domain/funnel"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/cache"
	"github.com/lumio/backend/internal/infrastructure/schema"
	"github.com/lumio/backend/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store  *testutil.Store
	pages  *funnelapp.Service
	sub    uuid.UUID
	page   *funnel.Page
	actor  uuid.UUID
	funnel uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore(t)
	ag, owner := store.CreateAgency(t, "Acme")
	sub := store.CreateSubAccount(t, ag.ID, "North")
	pages := funnelapp.NewService(store.Funnels, store.Pages, schema.MustElementTreeValidator(), nil, zap.NewNop())

	fn, err := pages.UpsertFunnel(ctx, owner.ID, sub.ID, funnelapp.UpsertFunnelInput{Details: funnel.Details{Name: "Launch"}})
	require.NoError(t, err)
	page, err := pages.UpsertPage(ctx, owner.ID, sub.ID, fn.ID, funnelapp.UpsertPageInput{Name: "Home"})
	require.NoError(t, err)

	return &fixture{store: store, pages: pages, sub: sub.ID, page: page, actor: owner.ID, funnel: fn.ID}
}

func newService(f *fixture, store cache.SessionStore) *SessionService {
	return NewSessionService(f.pages, store, schema.MustElementTreeValidator(), SessionConfig{TTL: time.Minute, HistoryLimit: 10}, zap.NewNop())
}

func textElement(id, text string) editor.Element {
	return editor.Element{
		ID:      id,
		Name:    "Text",
		Type:    editor.TypeText,
		Styles:  editor.Styles{},
		Content: editor.LeafContent(editor.Leaf{"innerText": text}),
	}
}

func TestSessionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newService(f, cache.NewInMemorySessionStore())

	sess, err := svc.Open(ctx, f.sub, f.page.ID)
	require.NoError(t, err)
	assert.Equal(t, f.page.ID.String(), sess.State.Editor.FunnelPageID)
	require.Len(t, sess.State.Editor.Elements, 1)
	assert.Equal(t, "white", sess.State.Editor.Elements[0].Styles["backgroundColor"])
	assert.False(t, sess.State.CanUndo())

	sess, err = svc.Dispatch(ctx, f.sub, sess.ID, editor.AddElement(editor.BodyID, textElement("t1", "Hello")))
	require.NoError(t, err)
	assert.True(t, sess.State.CanUndo())

	t.Run("rejected actions leave the session unchanged", func(t *testing.T) {
		_, err := svc.Dispatch(ctx, f.sub, sess.ID, editor.AddElement(editor.BodyID, textElement("t1", "Again")))
		assert.ErrorIs(t, err, editor.ErrDuplicateElement)

		got, err := svc.Get(ctx, f.sub, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.State.History.CurrentIndex, got.State.History.CurrentIndex)
	})

	undone, err := svc.Undo(ctx, f.sub, sess.ID)
	require.NoError(t, err)
	_, found := undone.State.FindElement("t1")
	assert.False(t, found)

	redone, err := svc.Redo(ctx, f.sub, sess.ID)
	require.NoError(t, err)
	_, found = redone.State.FindElement("t1")
	assert.True(t, found)

	_, err = svc.Save(ctx, f.sub, sess.ID)
	require.NoError(t, err)
	stored, err := f.store.Pages.FindByID(ctx, f.page.ID)
	require.NoError(t, err)
	elements, err := editor.ParseElements(stored.Content)
	require.NoError(t, err)
	require.Len(t, elements[0].Content.Children(), 1)
	assert.Equal(t, "t1", elements[0].Content.Children()[0].ID)

	require.NoError(t, svc.Close(ctx, f.sub, sess.ID))
	_, err = svc.Get(ctx, f.sub, sess.ID)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}

func TestSessionService_OtherSubAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newService(f, cache.NewInMemorySessionStore())

	_, err := svc.Open(ctx, uuid.New(), f.page.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	sess, err := svc.Open(ctx, f.sub, f.page.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, uuid.New(), sess.ID)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Close(ctx, uuid.New(), sess.ID), cache.ErrSessionNotFound)
}

func TestSessionService_InvalidStoredContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Pages.UpdateContent(ctx, f.page.ID, `{"not":"a list"}`))
	svc := newService(f, cache.NewInMemorySessionStore())

	_, err := svc.Open(ctx, f.sub, f.page.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestSessionService_BlankPageOpensWithBody(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Pages.UpdateContent(ctx, f.page.ID, ""))
	svc := newService(f, cache.NewInMemorySessionStore())

	sess, err := svc.Open(ctx, f.sub, f.page.ID)
	require.NoError(t, err)
	require.Len(t, sess.State.Editor.Elements, 1)
	assert.Equal(t, editor.BodyID, sess.State.Editor.Elements[0].ID)
}

func TestSessionService_RedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t)
	svc := newService(f, cache.NewRedisSessionStore(client))

	sess, err := svc.Open(ctx, f.sub, f.page.ID)
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, f.sub, sess.ID, editor.ChangeDevice(editor.DeviceMobile))
	require.NoError(t, err)

	got, err := svc.Get(ctx, f.sub, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, editor.DeviceMobile, got.State.Editor.Device)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Get(ctx, f.sub, sess.ID)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}
