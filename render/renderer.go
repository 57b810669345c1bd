// Package render formats catalog data and dialogue prompts into outbound
// messages. Everything here is pure: no store access, no side effects.
package render

import (
	"fmt"
	"strings"

	"github.com/elphone/storebot/catalog"
	"github.com/elphone/storebot/core/telegram/format"
	"github.com/elphone/storebot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// User-facing texts.
const (
	MsgWelcome        = "سلام! به فروشگاه *Elphone Store Accessories* خوش آمدید."
	MsgNotAdmin       = "⚠️ شما ادمین نیستید و اجازه دسترسی به این بخش را ندارید."
	MsgCatalogEmpty   = "هیچ محصولی ثبت نشده."
	MsgProductAdded   = "✅ محصول با موفقیت اضافه شد."
	MsgProductDeleted = "محصول با موفقیت حذف شد."
	MsgCancelled      = "عملیات لغو شد."
	MsgDraftDiscarded = "گفتگوی قبلی لغو شد؛ افزودن محصول از ابتدا شروع می‌شود."
	MsgUnknownCommand = "دستور نامشخص"
	MsgFailure        = "⚠️ خطایی رخ داد. لطفا دوباره تلاش کنید."

	PromptName        = "لطفا نام محصول را وارد کنید:"
	PromptDescription = "توضیحات محصول را وارد کنید:"
	PromptPrice       = "قیمت محصول را به تومان وارد کنید:"
	MsgInvalidPrice   = "قیمت باید یک عدد صحیح باشد. لطفا دوباره وارد کنید:"

	btnViewProducts = "🛍 مشاهده محصولات"
	listHeader      = "📦 لیست محصولات:"
)

// CallbackShowProducts and CallbackDelete are the action keys carried by
// inline buttons and interpreted by the callback router.
const (
	CallbackShowProducts = "show_products"
	CallbackDelete       = "delete"
)

// Welcome returns the greeting text plus the public "view products" control.
func Welcome() (string, *tele.ReplyMarkup) {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnViewProducts, Unique: CallbackShowProducts},
	})
	return MsgWelcome, markup
}

// List renders the public catalog listing, one "name — price" line per item.
// Names are escaped so Markdown delivery cannot break on user-entered text.
func List(items []catalog.Item) string {
	if len(items) == 0 {
		return MsgCatalogEmpty
	}
	var b strings.Builder
	b.WriteString(listHeader)
	b.WriteString("\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%s — %d تومان\n", format.EscapeMarkdown(it.Name), it.Price)
	}
	return b.String()
}

// AdminList renders the listing plus one delete control per item, keyed by id.
func AdminList(items []catalog.Item) (string, *tele.ReplyMarkup) {
	if len(items) == 0 {
		return MsgCatalogEmpty, nil
	}
	buttons := make([]keyboard.InlineBtn, 0, len(items))
	for _, it := range items {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("❌ حذف %s", it.Name),
			Unique: CallbackDelete,
			Data:   fmt.Sprintf("%d", it.ID),
		})
	}
	return List(items), keyboard.InlineButtons(buttons)
}
