package render

import (
	"strings"
	"testing"

	"github.com/elphone/storebot/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmpty(t *testing.T) {
	assert.Equal(t, MsgCatalogEmpty, List(nil))
	assert.Equal(t, MsgCatalogEmpty, List([]catalog.Item{}))
}

func TestListOrderAndFormat(t *testing.T) {
	items := []catalog.Item{
		{ID: 1, Name: "Case", Price: 150000},
		{ID: 2, Name: "Charger", Price: 99000},
	}
	out := List(items)

	require.True(t, strings.HasPrefix(out, listHeader))
	caseIdx := strings.Index(out, "Case — 150000 تومان")
	chargerIdx := strings.Index(out, "Charger — 99000 تومان")
	require.GreaterOrEqual(t, caseIdx, 0)
	require.GreaterOrEqual(t, chargerIdx, 0)
	assert.Less(t, caseIdx, chargerIdx, "items must keep insertion order")
}

func TestListEscapesMarkdownInNames(t *testing.T) {
	out := List([]catalog.Item{{ID: 7, Name: "AirPods *Pro*", Price: 5}})
	assert.Contains(t, out, `AirPods \*Pro\*`)
}

func TestAdminListDeleteControls(t *testing.T) {
	items := []catalog.Item{
		{ID: 10, Name: "Case", Price: 150000},
		{ID: 11, Name: "Cable", Price: 42000},
	}
	text, markup := AdminList(items)

	assert.Contains(t, text, "Case")
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)

	first := markup.InlineKeyboard[0][0]
	assert.Equal(t, "❌ حذف Case", first.Text)
	assert.Equal(t, CallbackDelete, first.Unique)
	assert.Equal(t, "10", first.Data)

	second := markup.InlineKeyboard[1][0]
	assert.Equal(t, "❌ حذف Cable", second.Text)
	assert.Equal(t, "11", second.Data)
}

func TestAdminListEmpty(t *testing.T) {
	text, markup := AdminList(nil)
	assert.Equal(t, MsgCatalogEmpty, text)
	assert.Nil(t, markup)
}

func TestWelcomeHasViewControl(t *testing.T) {
	text, markup := Welcome()
	assert.Equal(t, MsgWelcome, text)
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, CallbackShowProducts, markup.InlineKeyboard[0][0].Unique)
}
