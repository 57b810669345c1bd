package router

import (
	"time"

	tg "github.com/elphone/storebot/core/telegram"
	"github.com/elphone/storebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for a conversation manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for plain text routing. A user with an
// active conversation goes to the FSM; all other free text is ignored
// unless an explicit fallback is configured. Commands are dispatched by
// their own slash endpoints, never from bare text, so the per-command
// middleware (admin gating included) cannot be sidestepped here.
func TextRoutes(fsmMgr FSM, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()

		if fsmMgr != nil && c.Sender() != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
