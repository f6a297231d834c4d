package ui

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
)

// ---------------------------------------------------------------------------
// KeyValueBlock
// ---------------------------------------------------------------------------

func TestKeyValueBlockContainsTitleAndPairs(t *testing.T) {
	result := KeyValueBlock("My Title", [][2]string{
		{"Contract", "0x5FbDB2"},
		{"Network", "Hardhat Local"},
	})
	assert.Contains(t, result, "My Title")
	assert.Contains(t, result, "Contract")
	assert.Contains(t, result, "0x5FbDB2")
	assert.Contains(t, result, "Network")
	assert.Contains(t, result, "Hardhat Local")
}

func TestKeyValueBlockEmptyTitle(t *testing.T) {
	result := KeyValueBlock("", [][2]string{
		{"Key", "Value"},
	})
	assert.Contains(t, result, "Key")
	assert.Contains(t, result, "Value")
}

func TestKeyValueBlockNoPairs(t *testing.T) {
	result := KeyValueBlock("Empty Block", [][2]string{})
	assert.Contains(t, result, "Empty Block")
	assert.NotEmpty(t, result)
}

func TestKeyValueBlockSinglePair(t *testing.T) {
	result := KeyValueBlock("Single", [][2]string{
		{"OnlyKey", "OnlyVal"},
	})
	assert.Contains(t, result, "Single")
	assert.Contains(t, result, "OnlyKey")
	assert.Contains(t, result, "OnlyVal")
}

func TestKeyValueBlockMultiplePairsPreservesOrder(t *testing.T) {
	result := KeyValueBlock("Config", [][2]string{
		{"First", "AAA"},
		{"Second", "BBB"},
		{"Third", "CCC"},
	})
	idxFirst := strings.Index(result, "First")
	idxSecond := strings.Index(result, "Second")
	idxThird := strings.Index(result, "Third")
	require.Greater(t, idxFirst, -1)
	require.Greater(t, idxSecond, -1)
	require.Greater(t, idxThird, -1)
	assert.Less(t, idxFirst, idxSecond, "First should appear before Second")
	assert.Less(t, idxSecond, idxThird, "Second should appear before Third")
}

func TestKeyValueBlockHasBorder(t *testing.T) {
	result := KeyValueBlock("Bordered", [][2]string{
		{"Key", "Val"},
	})
	// lipgloss RoundedBorder uses ╭ and ╰ for corners.
	assert.Contains(t, result, "╭", "should have top-left rounded border")
	assert.Contains(t, result, "╰", "should have bottom-left rounded border")
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

func TestNewTableCreatesEmptyTable(t *testing.T) {
	cols := []Column{
		{Title: "Name", Width: 10},
		{Title: "Value", Width: 20},
	}
	tbl := NewTable(cols)
	assert.Len(t, tbl.Columns, 2)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, -1, tbl.SelIdx)
}

func TestTableAddRow(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 5}})
	tbl.AddRow(Row{"hello"})
	tbl.AddRow(Row{"world"})
	assert.Len(t, tbl.Rows, 2)
}

func TestTableRenderContainsHeaders(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "Name", Width: 10},
		{Title: "Balance", Width: 12},
	})
	result := tbl.Render()
	assert.Contains(t, result, "Name")
	assert.Contains(t, result, "Balance")
}

func TestTableRenderContainsRowData(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "Item", Width: 10},
		{Title: "Status", Width: 10},
	})
	tbl.AddRow(Row{"lamp", "active"})
	tbl.AddRow(Row{"vase", "ended"})

	result := tbl.Render()
	assert.Contains(t, result, "lamp")
	assert.Contains(t, result, "active")
	assert.Contains(t, result, "vase")
	assert.Contains(t, result, "ended")
}

func TestTableRenderHasDivider(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Col", Width: 8}})
	result := tbl.Render()
	assert.Contains(t, result, "--------", "should have a divider line")
}

func TestTableRenderEmptyRows(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "Header", Width: 10},
	})
	result := tbl.Render()
	assert.Contains(t, result, "Header")
	assert.NotEmpty(t, result)
}

func TestTableRenderRowShorterThanColumns(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "A", Width: 5},
		{Title: "B", Width: 5},
		{Title: "C", Width: 5},
	})
	tbl.AddRow(Row{"only1"})
	// Should not panic; missing cells render as empty.
	result := tbl.Render()
	assert.Contains(t, result, "only1")
}

func TestTableRenderPreservesRowOrder(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Item", Width: 10}})
	tbl.AddRow(Row{"first"})
	tbl.AddRow(Row{"second"})
	tbl.AddRow(Row{"third"})

	result := tbl.Render()
	idxFirst := strings.Index(result, "first")
	idxSecond := strings.Index(result, "second")
	idxThird := strings.Index(result, "third")
	assert.Less(t, idxFirst, idxSecond)
	assert.Less(t, idxSecond, idxThird)
}

func TestTableRenderSelectedRow(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 10}})
	tbl.AddRow(Row{"row0"})
	tbl.AddRow(Row{"row1"})
	tbl.SelIdx = 1

	result := tbl.Render()
	assert.Contains(t, result, "row0")
	assert.Contains(t, result, "row1")
}

func TestTableMultipleColumns(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "Hash", Width: 14},
		{Title: "From", Width: 14},
		{Title: "Value", Width: 12},
	})
	tbl.AddRow(Row{"0xabc", "0xdef", "1.5 ETH"})
	result := tbl.Render()
	assert.Contains(t, result, "Hash")
	assert.Contains(t, result, "From")
	assert.Contains(t, result, "Value")
	assert.Contains(t, result, "0xabc")
	assert.Contains(t, result, "0xdef")
	assert.Contains(t, result, "1.5 ETH")
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

func TestItemStatus(t *testing.T) {
	assert.Equal(t, "active", ItemStatus(auction.Item{Active: true}))
	assert.Equal(t, "ended", ItemStatus(auction.Item{}))
	assert.Equal(t, "pending", ItemStatus(auction.Item{Active: true, Optimistic: true, Pending: true}))
	assert.Equal(t, "bidding", ItemStatus(auction.Item{Active: true, Optimistic: true}))
}

func TestItemRow(t *testing.T) {
	row := ItemRow(auction.Item{
		ID:            7,
		Name:          "Lamp",
		StartingPrice: big.NewInt(5e17),
		HighestBid:    big.NewInt(1e18),
		HighestBidder: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		Active:        true,
	})
	assert.Equal(t, Row{"7", "Lamp", "0.5", "1", "0xf39F…2266", "active"}, row)

	row = ItemRow(auction.Item{ID: 8, Name: "Vase", BidderName: "alice"})
	assert.Equal(t, "alice", row[4])
	assert.Equal(t, "0", row[2])

	row = ItemRow(auction.Item{ID: 9})
	assert.Equal(t, "-", row[4])
}

func TestItemTableMarksOptimisticRows(t *testing.T) {
	tbl := ItemTable([]auction.Item{
		{ID: 1, Name: "Lamp", Active: true},
		{ID: 2, Name: "Clock", Active: true, Optimistic: true, Pending: true},
	})
	require.Len(t, tbl.Rows, 2)
	assert.False(t, tbl.dim[0])
	assert.True(t, tbl.dim[1])

	out := tbl.Render()
	assert.Contains(t, out, "Lamp")
	assert.Contains(t, out, "Clock")
	assert.Contains(t, out, "pending")
}

func TestTableRenderTruncatesMultibyte(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 3}})
	tbl.AddRow(Row{"ééééé"})
	assert.Contains(t, tbl.Render(), "ééé")
}

// ---------------------------------------------------------------------------
// Banner
// ---------------------------------------------------------------------------

func TestBannerNonEmpty(t *testing.T) {
	assert.NotEmpty(t, Banner())
}
