// Package dialogue drives the multi-step product entry conversation.
// The engine is transport-agnostic: handlers feed it user ids and raw text,
// it returns the reply to deliver.
package dialogue

import (
	"context"
	"strconv"
	"sync"

	"github.com/elphone/storebot/auth"
	"github.com/elphone/storebot/catalog"
	"github.com/elphone/storebot/core/logger"
	"github.com/elphone/storebot/core/telegram/state"
	"github.com/elphone/storebot/render"

	"log/slog"
)

// Conversation states for product entry.
const (
	StateAwaitingName        state.State = "product:name"
	StateAwaitingDescription state.State = "product:description"
	StateAwaitingPrice       state.State = "product:price"
)

// Draft field keys within the session temp data.
const (
	draftName        = "name"
	draftDescription = "description"
)

// Engine is the per-user finite-state machine for product entry.
// Events for the same user are strictly serialized; different users
// proceed in parallel.
type Engine struct {
	roster   *auth.Roster
	products *catalog.Service
	sessions state.Manager

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewEngine wires the engine to its collaborators.
func NewEngine(roster *auth.Roster, products *catalog.Service, sessions state.Manager) *Engine {
	return &Engine{
		roster:   roster,
		products: products,
		sessions: sessions,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	mu, ok := e.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[userID] = mu
	}
	return mu
}

// InProgress reports whether the user has an active conversation.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.InProgress(userID)
}

// Start begins product entry for an admin. A session already in flight is
// reset and the user is told the previous draft was discarded. Non-admins
// get a denial, any of their sessions are ended, and no session is created.
func (e *Engine) Start(ctx context.Context, userID int64) (string, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := e.roster.RequireAdmin(userID); err != nil {
		e.sessions.Clear(userID)
		return render.MsgNotAdmin, err
	}

	reply := render.PromptName
	if e.sessions.InProgress(userID) {
		e.sessions.Clear(userID)
		reply = render.MsgDraftDiscarded + "\n" + render.PromptName
	}
	e.sessions.SetState(userID, StateAwaitingName)

	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "dialogue", "session.start",
			slog.Int64("user_id", userID),
			slog.String("step", string(StateAwaitingName)),
		)
	}
	return reply, nil
}

// HandleText consumes a free-text reply for the user's current step.
// Text arriving with no active session is ignored (empty reply, nil error).
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) (string, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	switch e.sessions.GetState(userID) {
	case StateAwaitingName:
		// Accepted verbatim, empty included.
		e.sessions.SetTemp(userID, draftName, text)
		e.sessions.SetState(userID, StateAwaitingDescription)
		return render.PromptDescription, nil

	case StateAwaitingDescription:
		e.sessions.SetTemp(userID, draftDescription, text)
		e.sessions.SetState(userID, StateAwaitingPrice)
		return render.PromptPrice, nil

	case StateAwaitingPrice:
		return e.commitPrice(ctx, userID, text)

	default:
		return "", nil
	}
}

// commitPrice validates the price reply and, when valid, persists the draft.
// Invalid input keeps the session at the price step for retry. A store
// failure also keeps the session so the user may resubmit.
func (e *Engine) commitPrice(ctx context.Context, userID int64, text string) (string, error) {
	price, ok := parsePrice(text)
	if !ok {
		return render.MsgInvalidPrice, nil
	}

	name, _ := e.sessions.GetTempString(userID, draftName)
	description, _ := e.sessions.GetTempString(userID, draftDescription)

	id, err := e.products.Add(ctx, name, description, price)
	if err != nil {
		return render.MsgFailure, err
	}

	e.sessions.Clear(userID)
	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "dialogue", "session.complete",
			slog.Int64("user_id", userID),
			slog.Int64("product_id", id),
		)
	}
	return render.MsgProductAdded, nil
}

// Cancel ends any active session and discards the draft. Issued without a
// session it is a plain acknowledgement.
func (e *Engine) Cancel(ctx context.Context, userID int64) (string, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	e.sessions.Clear(userID)
	return render.MsgCancelled, nil
}

// parsePrice accepts only strings made entirely of decimal digits.
// Values that overflow int64 count as invalid input, not errors.
func parsePrice(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
