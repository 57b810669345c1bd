package router

import (
	"testing"

	tg "github.com/elphone/storebot/core/telegram"
	"github.com/elphone/storebot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// textUpdate drives the text route in tests. Methods the route never touches
// fall through to the embedded nil interface and would panic loudly.
type textUpdate struct {
	tele.Context
	text   string
	sender *tele.User
	store  map[string]any
	sent   []string
}

func newTextUpdate(userID int64, text string) *textUpdate {
	return &textUpdate{
		text:   text,
		sender: &tele.User{ID: userID},
		store:  make(map[string]any),
	}
}

func (c *textUpdate) Update() tele.Update {
	return tele.Update{ID: 1, Message: &tele.Message{Text: c.text, Sender: c.sender}}
}

func (c *textUpdate) Sender() *tele.User { return c.sender }

func (c *textUpdate) Chat() *tele.Chat {
	return &tele.Chat{ID: c.sender.ID, Type: tele.ChatPrivate}
}

func (c *textUpdate) Text() string { return c.text }

func (c *textUpdate) Callback() *tele.Callback { return nil }

func (c *textUpdate) Get(key string) any { return c.store[key] }

func (c *textUpdate) Set(key string, value any) { c.store[key] = value }

func (c *textUpdate) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

type recordingFSM struct {
	active  map[int64]bool
	handled []string
}

func (f *recordingFSM) InProgress(userID int64) bool { return f.active[userID] }

func (f *recordingFSM) ManagerHandler(c tele.Context) error {
	f.handled = append(f.handled, c.Text())
	return nil
}

func onTextHandler(t *testing.T, routes []tg.Route) tele.HandlerFunc {
	t.Helper()
	for _, r := range routes {
		if r.Endpoint == tele.OnText {
			return r.Handler
		}
	}
	t.Fatal("no OnText route built")
	return nil
}

// An admin-only command typed as bare text (no slash) must never reach the
// command handler: commands dispatch only through their slash endpoints,
// where the admin middleware is applied.
func TestTextRouteDoesNotDispatchAdminCommand(t *testing.T) {
	reg := tg.NewRegistry()
	invoked := false
	reg.RegisterCommand("/listproducts", commands.Command{
		Handler: func(c tele.Context) error {
			invoked = true
			return c.Send("items")
		},
		Description: "admin listing",
		AdminOnly:   true,
	})

	h := onTextHandler(t, TextRoutes(&recordingFSM{}, TextOptions{}))
	c := newTextUpdate(555, "listproducts")

	if err := h(c); err != nil {
		t.Fatalf("text route returned error: %v", err)
	}
	if invoked {
		t.Fatal("admin-only command handler was invoked from bare text")
	}
	if len(c.sent) != 0 {
		t.Fatalf("expected no reply, got %q", c.sent)
	}
}

// Free text from a user with no active session is dropped without a reply.
func TestTextRouteIgnoresBareTextWithoutSession(t *testing.T) {
	h := onTextHandler(t, TextRoutes(&recordingFSM{}, TextOptions{}))

	for _, text := range []string{"start", "cancel", "hello"} {
		c := newTextUpdate(777, text)
		if err := h(c); err != nil {
			t.Fatalf("text %q: unexpected error: %v", text, err)
		}
		if len(c.sent) != 0 {
			t.Fatalf("text %q: expected no reply, got %q", text, c.sent)
		}
	}
}

func TestTextRouteForwardsSessionTextToFSM(t *testing.T) {
	fsm := &recordingFSM{active: map[int64]bool{42: true}}
	h := onTextHandler(t, TextRoutes(fsm, TextOptions{}))

	c := newTextUpdate(42, "Phone case")
	if err := h(c); err != nil {
		t.Fatalf("text route returned error: %v", err)
	}
	if len(fsm.handled) != 1 || fsm.handled[0] != "Phone case" {
		t.Fatalf("expected FSM to receive the text, got %q", fsm.handled)
	}
}

func TestTextRouteUsesConfiguredFallback(t *testing.T) {
	calls := 0
	h := onTextHandler(t, TextRoutes(&recordingFSM{}, TextOptions{
		UnknownText: func(c tele.Context) error {
			calls++
			return nil
		},
	}))

	c := newTextUpdate(777, "anything")
	if err := h(c); err != nil {
		t.Fatalf("text route returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected fallback to run once, ran %d times", calls)
	}
}
