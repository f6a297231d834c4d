package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
	SelIdx  int // selected row index (-1 = none)

	dim map[int]bool
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, SelIdx: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// AddPendingRow appends a row rendered in the pending style.
func (t *Table) AddPendingRow(r Row) {
	if t.dim == nil {
		t.dim = make(map[int]bool)
	}
	t.dim[len(t.Rows)] = true
	t.Rows = append(t.Rows, r)
}

// ItemColumns is the column layout for auction items.
var ItemColumns = []Column{
	{Title: "ID", Width: 14},
	{Title: "NAME", Width: 24},
	{Title: "START (ETH)", Width: 12},
	{Title: "HIGHEST (ETH)", Width: 14},
	{Title: "BIDDER", Width: 16},
	{Title: "STATUS", Width: 9},
}

// ItemStatus is the one-word status shown for an item.
func ItemStatus(it auction.Item) string {
	switch {
	case it.Pending:
		return "pending"
	case it.Optimistic:
		return "bidding"
	case it.Active:
		return "active"
	}
	return "ended"
}

// ItemRow formats it for ItemColumns.
func ItemRow(it auction.Item) Row {
	bidder := it.BidderName
	if bidder == "" {
		bidder = TruncateAddr(it.HighestBidder)
	}
	if bidder == "" {
		bidder = "-"
	}
	return Row{
		fmt.Sprintf("%d", it.ID),
		it.Name,
		auction.FormatEther(it.StartingPrice),
		auction.FormatEther(it.HighestBid),
		bidder,
		ItemStatus(it),
	}
}

// ItemTable renders items, optimistic ones in the pending style.
func ItemTable(items []auction.Item) *Table {
	t := NewTable(ItemColumns)
	for _, it := range items {
		if it.Optimistic {
			t.AddPendingRow(ItemRow(it))
		} else {
			t.AddRow(ItemRow(it))
		}
	}
	return t
}

// Render returns the full table as a string. Cells are padded by hand so
// lipgloss never wraps a cell wider than its column.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	// pad returns s left-aligned within exactly width runes, truncating if needed.
	pad := func(s string, width int) string {
		r := []rune(s)
		if len(r) >= width {
			return string(r[:width])
		}
		return s + strings.Repeat(" ", width-len(r))
	}

	var headers []string
	for _, col := range t.Columns {
		headers = append(headers, headerStyle.Render(pad(col.Title, col.Width)))
	}
	sb.WriteString(strings.Join(headers, " "))
	sb.WriteString("\n")

	var divParts []string
	for _, col := range t.Columns {
		divParts = append(divParts, dimStyle.Render(pad(strings.Repeat("-", col.Width), col.Width)))
	}
	sb.WriteString(strings.Join(divParts, " "))
	sb.WriteString("\n")

	for i, row := range t.Rows {
		var cells []string
		for j, col := range t.Columns {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			switch {
			case i == t.SelIdx:
				cells = append(cells, StyleSelected.Render(pad(val, col.Width)))
			case t.dim[i]:
				cells = append(cells, StylePending.Render(pad(val, col.Width)))
			default:
				cells = append(cells, cellStyle.Render(pad(val, col.Width)))
			}
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-20s", p[0]+":"))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
