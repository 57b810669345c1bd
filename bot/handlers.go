package bot

import (
	"strings"

	"github.com/elphone/storebot/core/telegram/callbacks"
	tghelpers "github.com/elphone/storebot/core/telegram/helpers"
	"github.com/elphone/storebot/dialogue"
	"github.com/elphone/storebot/render"

	tele "gopkg.in/telebot.v4"
)

// handlers binds Telegram updates to the domain components.
type handlers struct {
	app *App
}

// start greets any user and offers the public catalog control.
func (h *handlers) start(c tele.Context) error {
	text, markup := render.Welcome()
	return tghelpers.SendMD(c, text, markup)
}

// addProduct enters the product entry dialogue. The admin gate runs both in
// the command middleware and inside the engine.
func (h *handlers) addProduct(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "addproduct")
	reply, err := h.app.engine.Start(ctx, c.Sender().ID)
	if reply != "" {
		if sendErr := tghelpers.SendText(c, reply); sendErr != nil {
			return sendErr
		}
	}
	return err
}

// listProducts renders the admin listing with per-item delete controls.
// The roster check here backs up the command middleware, matching
// deleteProduct: every mutating surface verifies the sender itself.
func (h *handlers) listProducts(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "listproducts")

	if err := h.app.roster.RequireAdmin(c.Sender().ID); err != nil {
		_ = tghelpers.SendText(c, render.MsgNotAdmin)
		return err
	}

	items, err := h.app.products.List(ctx)
	if err != nil {
		_ = tghelpers.SendText(c, render.MsgFailure)
		return err
	}
	text, markup := render.AdminList(items)
	if markup == nil {
		return tghelpers.SendText(c, text)
	}
	return tghelpers.SendMD(c, text, markup)
}

// cancel ends the invoking user's active dialogue, if any.
func (h *handlers) cancel(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cancel")
	reply, err := h.app.engine.Cancel(ctx, c.Sender().ID)
	if reply != "" {
		if sendErr := tghelpers.SendText(c, reply); sendErr != nil {
			return sendErr
		}
	}
	return err
}

// showProducts renders the public listing; no authorization required.
func (h *handlers) showProducts(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "show_products")
	items, err := h.app.products.List(ctx)
	if err != nil {
		_ = tghelpers.EditOrSendMD(c, render.MsgFailure)
		return err
	}
	return tghelpers.EditOrSendMD(c, render.List(items))
}

// deleteProduct removes an item by id. Deleting a missing id still replies
// with the confirmation: the outcome the admin asked for holds either way.
func (h *handlers) deleteProduct(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "delete_product")
	userID := c.Sender().ID

	if err := h.app.roster.RequireAdmin(userID); err != nil {
		_ = tghelpers.EditOrSendMD(c, render.MsgNotAdmin)
		return err
	}

	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.EditOrSendMD(c, render.MsgUnknownCommand)
	}

	if _, err := h.app.products.Delete(ctx, id); err != nil {
		_ = tghelpers.EditOrSendMD(c, render.MsgFailure)
		return err
	}
	return tghelpers.EditOrSendMD(c, render.MsgProductDeleted)
}

// UnknownText ignores free text arriving outside a dialogue.
func (h *handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error { return nil }
}

// UnknownCallback reports unrecognized payloads instead of dropping them.
func (h *handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.EditOrSendMD(c, render.MsgUnknownCommand)
	}
}

// notAdmin is the denial reply used by the admin-only command middleware.
func (h *handlers) notAdmin(c tele.Context) error {
	return tghelpers.SendText(c, render.MsgNotAdmin)
}

// fsmAdapter exposes the dialogue engine to the text router.
type fsmAdapter struct {
	engine *dialogue.Engine
}

func (f fsmAdapter) InProgress(userID int64) bool {
	return f.engine.InProgress(userID)
}

// ManagerHandler feeds the user's reply into the active dialogue step.
// Command-shaped text is never consumed as a dialogue reply.
func (f fsmAdapter) ManagerHandler(c tele.Context) error {
	text := c.Text()
	if strings.HasPrefix(text, "/") {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "fsm")
	reply, err := f.engine.HandleText(ctx, c.Sender().ID, text)
	if reply != "" {
		if sendErr := tghelpers.SendText(c, reply); sendErr != nil {
			return sendErr
		}
	}
	return err
}
