package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynonymTable_CanonicalOf(t *testing.T) {
	table := NewSynonymTable([][]string{
		{"マインクラフト", "マイクラ,まいくら"},
		{"フォートナイト", "フォトナ"},
	})

	assert.Equal(t, "マインクラフト", table.CanonicalOf("マイクラ"))
	assert.Equal(t, "マインクラフト", table.CanonicalOf("まいくら"))
	assert.Equal(t, "マインクラフト", table.CanonicalOf("マインクラフト"))
	assert.Equal(t, "フォートナイト", table.CanonicalOf("フォトナ"))

	// Names outside the table are their own canonical form.
	assert.Equal(t, "ポケモン", table.CanonicalOf("ポケモン"))
	assert.Equal(t, 2, table.Len())
}

func TestSynonymTable_AliasUniqueness(t *testing.T) {
	// The first registration of an alias wins.
	table := NewSynonymTable([][]string{
		{"マインクラフト", "マイクラ"},
		{"マイクラダンジョンズ", "マイクラ"},
	})

	assert.Equal(t, "マインクラフト", table.CanonicalOf("マイクラ"))
	assert.Equal(t, []string{"マイクラダンジョンズ"}, table.AliasesOf("マイクラダンジョンズ"))
}

func TestSynonymTable_AliasesOf(t *testing.T) {
	table := NewSynonymTable([][]string{
		{"マインクラフト", "マイクラ、まいくら"},
	})

	assert.Equal(t, []string{"マインクラフト", "マイクラ", "まいくら"}, table.AliasesOf("まいくら"))
	assert.Equal(t, []string{"ポケモン"}, table.AliasesOf("ポケモン"))
}

func TestSynonymTable_SkipsBlankRows(t *testing.T) {
	table := NewSynonymTable([][]string{
		{},
		{"  "},
		{"フォートナイト"},
	})

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"フォートナイト"}, table.Canonicals())
}

func TestSynonymTable_RowsRoundTrip(t *testing.T) {
	rows := [][]string{{"マインクラフト", "マイクラ"}}
	table := NewSynonymTable(rows)

	rebuilt := NewSynonymTable(table.Rows())
	assert.Equal(t, table.CanonicalOf("マイクラ"), rebuilt.CanonicalOf("マイクラ"))
	assert.Equal(t, table.Canonicals(), rebuilt.Canonicals())
}
