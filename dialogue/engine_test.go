package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/elphone/storebot/auth"
	"github.com/elphone/storebot/catalog"
	"github.com/elphone/storebot/core/telegram/state"
	"github.com/elphone/storebot/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID    = int64(1797890079)
	strangerID = int64(555)
)

type fixture struct {
	engine   *Engine
	repo     *catalog.MemoryRepository
	sessions state.Manager
}

func newFixture() *fixture {
	repo := catalog.NewMemoryRepository()
	sessions := state.NewMemoryManager()
	roster := auth.NewRoster([]int64{adminID})
	return &fixture{
		engine:   NewEngine(roster, catalog.NewService(repo), sessions),
		repo:     repo,
		sessions: sessions,
	}
}

func (f *fixture) items(t *testing.T) []catalog.Item {
	t.Helper()
	items, err := f.repo.ListAll(context.Background())
	require.NoError(t, err)
	return items
}

func TestStartDeniedForNonAdmin(t *testing.T) {
	f := newFixture()

	reply, err := f.engine.Start(context.Background(), strangerID)

	assert.Equal(t, render.MsgNotAdmin, reply)
	var denied *auth.NotAuthorizedError
	require.ErrorAs(t, err, &denied)
	assert.False(t, f.engine.InProgress(strangerID))
	assert.Empty(t, f.items(t))
}

func TestFullDialogueInsertsItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	reply, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, render.PromptName, reply)

	reply, err = f.engine.HandleText(ctx, adminID, "Case")
	require.NoError(t, err)
	assert.Equal(t, render.PromptDescription, reply)

	reply, err = f.engine.HandleText(ctx, adminID, "Phone case")
	require.NoError(t, err)
	assert.Equal(t, render.PromptPrice, reply)

	reply, err = f.engine.HandleText(ctx, adminID, "150000")
	require.NoError(t, err)
	assert.Equal(t, render.MsgProductAdded, reply)

	assert.False(t, f.engine.InProgress(adminID))
	items := f.items(t)
	require.Len(t, items, 1)
	assert.Equal(t, "Case", items[0].Name)
	assert.Equal(t, "Phone case", items[0].Description)
	assert.Equal(t, int64(150000), items[0].Price)
}

func TestEmptyNameAndDescriptionAcceptedVerbatim(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)

	_, err = f.engine.HandleText(ctx, adminID, "")
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "")
	require.NoError(t, err)

	reply, err := f.engine.HandleText(ctx, adminID, "10")
	require.NoError(t, err)
	assert.Equal(t, render.MsgProductAdded, reply)

	items := f.items(t)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Name)
	assert.Empty(t, items[0].Description)
}

func TestInvalidPriceRetriesInPlace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "Case")
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "Phone case")
	require.NoError(t, err)

	for _, bad := range []string{"abc", "", "12a", "-5", "1.5", "۱۲۳"} {
		reply, err := f.engine.HandleText(ctx, adminID, bad)
		require.NoError(t, err)
		assert.Equal(t, render.MsgInvalidPrice, reply, "input %q", bad)
		assert.True(t, f.engine.InProgress(adminID))
		assert.Empty(t, f.items(t), "input %q must not write", bad)
	}

	reply, err := f.engine.HandleText(ctx, adminID, "99000")
	require.NoError(t, err)
	assert.Equal(t, render.MsgProductAdded, reply)
	require.Len(t, f.items(t), 1)
	assert.Equal(t, int64(99000), f.items(t)[0].Price)
}

func TestPriceOverflowIsInvalid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "Case")
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "desc")
	require.NoError(t, err)

	reply, err := f.engine.HandleText(ctx, adminID, "99999999999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, render.MsgInvalidPrice, reply)
	assert.True(t, f.engine.InProgress(adminID))
}

func TestCancelDiscardsDraftAtAnyStep(t *testing.T) {
	ctx := context.Background()
	steps := [][]string{
		{},
		{"Case"},
		{"Case", "Phone case"},
	}
	for _, replies := range steps {
		f := newFixture()
		_, err := f.engine.Start(ctx, adminID)
		require.NoError(t, err)
		for _, text := range replies {
			_, err = f.engine.HandleText(ctx, adminID, text)
			require.NoError(t, err)
		}

		reply, err := f.engine.Cancel(ctx, adminID)
		require.NoError(t, err)
		assert.Equal(t, render.MsgCancelled, reply)
		assert.False(t, f.engine.InProgress(adminID))
		assert.Empty(t, f.items(t))
	}
}

func TestCancelWithoutSessionIsAcknowledged(t *testing.T) {
	f := newFixture()

	reply, err := f.engine.Cancel(context.Background(), adminID)

	require.NoError(t, err)
	assert.Equal(t, render.MsgCancelled, reply)
}

func TestRestartDiscardsPriorDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "Old name")
	require.NoError(t, err)

	reply, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)
	assert.Contains(t, reply, render.MsgDraftDiscarded)
	assert.Contains(t, reply, render.PromptName)

	// The new session must begin at the name step again.
	_, err = f.engine.HandleText(ctx, adminID, "New name")
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "desc")
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "10")
	require.NoError(t, err)

	items := f.items(t)
	require.Len(t, items, 1)
	assert.Equal(t, "New name", items[0].Name)
}

func TestTextWithoutSessionIgnored(t *testing.T) {
	f := newFixture()

	reply, err := f.engine.HandleText(context.Background(), adminID, "hello")

	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Empty(t, f.items(t))
}

func TestStoreFailureKeepsSessionForRetry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "Case")
	require.NoError(t, err)
	_, err = f.engine.HandleText(ctx, adminID, "Phone case")
	require.NoError(t, err)

	f.repo.FailNext = errors.New("connection refused")
	reply, err := f.engine.HandleText(ctx, adminID, "150000")
	assert.Equal(t, render.MsgFailure, reply)
	var storeErr *catalog.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.True(t, f.engine.InProgress(adminID), "session must survive a store failure")

	reply, err = f.engine.HandleText(ctx, adminID, "150000")
	require.NoError(t, err)
	assert.Equal(t, render.MsgProductAdded, reply)
	require.Len(t, f.items(t), 1)
}

func TestUsersProgressIndependently(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	other := int64(42)
	roster := auth.NewRoster([]int64{adminID, other})
	f.engine = NewEngine(roster, catalog.NewService(f.repo), f.sessions)

	_, err := f.engine.Start(ctx, adminID)
	require.NoError(t, err)
	_, err = f.engine.Start(ctx, other)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, uid := range []int64{adminID, other} {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, _ = f.engine.HandleText(ctx, uid, "Case")
			_, _ = f.engine.HandleText(ctx, uid, "desc")
			_, _ = f.engine.HandleText(ctx, uid, "100")
		}(uid)
	}
	wg.Wait()

	assert.Len(t, f.items(t), 2)
	assert.False(t, f.engine.InProgress(adminID))
	assert.False(t, f.engine.InProgress(other))
}
