package router

import (
	"time"

	tg "github.com/elphone/storebot/core/telegram"
	"github.com/elphone/storebot/core/telegram/callbacks"
	"github.com/elphone/storebot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callbacks through the registry.
// Flat payloads like "delete_42" are normalised to a registered action key
// plus payload so old inline keyboards keep working.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		key := callbacks.CallbackKey(c)

		_ = c.Respond()

		cbHandler, ok := reg.GetCallback(key)
		if !ok {
			// Legacy flat encoding: <action>_<payload> with no separator.
			if legacyKey, payload := callbacks.SplitLegacy(cb.Data); legacyKey != key {
				if h, found := reg.GetCallback(legacyKey); found {
					cb.Unique = legacyKey
					cb.Data = "\f" + legacyKey + "|" + payload
					key, cbHandler, ok = legacyKey, h, true
				}
			}
		}

		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		if !ok || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, "", "", func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, "", "", func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
