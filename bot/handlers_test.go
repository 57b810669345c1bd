package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elphone/storebot/auth"
	"github.com/elphone/storebot/catalog"
	"github.com/elphone/storebot/core/telegram/state"
	"github.com/elphone/storebot/dialogue"
	"github.com/elphone/storebot/render"

	tele "gopkg.in/telebot.v4"
)

const (
	testAdminID    = int64(1797890079)
	testStrangerID = int64(555)
)

// stubContext fakes the transport for handler tests. Unimplemented methods
// fall through to the embedded nil interface and would panic loudly.
type stubContext struct {
	tele.Context
	sender *tele.User
	store  map[string]any
	sent   []string
}

func newStubContext(userID int64) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID},
		store:  make(map[string]any),
	}
}

func (c *stubContext) Update() tele.Update { return tele.Update{ID: 7} }

func (c *stubContext) Sender() *tele.User { return c.sender }

func (c *stubContext) Chat() *tele.Chat { return &tele.Chat{ID: c.sender.ID} }

func (c *stubContext) Get(key string) any { return c.store[key] }

func (c *stubContext) Set(key string, value any) { c.store[key] = value }

func (c *stubContext) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *stubContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return c.Send(what, opts...)
}

func newTestHandlers() *handlers {
	roster := auth.NewRoster([]int64{testAdminID})
	products := catalog.NewService(catalog.NewMemoryRepository())
	sessions := state.NewMemoryManager()
	app := &App{
		roster:   roster,
		products: products,
		sessions: sessions,
		engine:   dialogue.NewEngine(roster, products, sessions),
	}
	return &handlers{app: app}
}

func TestListProductsDeniedForNonAdmin(t *testing.T) {
	h := newTestHandlers()
	c := newStubContext(testStrangerID)

	err := h.listProducts(c)

	var denied *auth.NotAuthorizedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, []string{render.MsgNotAdmin}, c.sent)
}

func TestListProductsForAdmin(t *testing.T) {
	h := newTestHandlers()

	c := newStubContext(testAdminID)
	require.NoError(t, h.listProducts(c))
	require.Equal(t, []string{render.MsgCatalogEmpty}, c.sent)

	_, err := h.app.products.Add(context.Background(), "Case", "Leather", 150000)
	require.NoError(t, err)

	c = newStubContext(testAdminID)
	require.NoError(t, h.listProducts(c))
	require.Len(t, c.sent, 1)
	require.Contains(t, c.sent[0], "Case")
}

func TestDeleteProductDeniedForNonAdmin(t *testing.T) {
	h := newTestHandlers()
	id, err := h.app.products.Add(context.Background(), "Case", "Leather", 150000)
	require.NoError(t, err)

	c := newStubContext(testStrangerID)
	err = h.deleteProduct(c)

	var denied *auth.NotAuthorizedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, []string{render.MsgNotAdmin}, c.sent)

	items, listErr := h.app.products.List(context.Background())
	require.NoError(t, listErr)
	require.Len(t, items, 1)
	require.Equal(t, id, items[0].ID)
}
