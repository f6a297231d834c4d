package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
)

// BoardSnapshot is one refresh of the live board.
type BoardSnapshot struct {
	Items    []auction.Item
	Mode     string
	Account  string
	Network  string
	Pending  int
	LastSync time.Time
	Err      string
}

// BoardFetch loads a snapshot. It runs off the UI goroutine.
type BoardFetch func() BoardSnapshot

// BoardModel is the Bubble Tea model for the live auction board.
type BoardModel struct {
	Fetch    BoardFetch
	Interval time.Duration
	Snap     BoardSnapshot
	Frame    int
	Fetching bool
	Quitting bool
	cursor   int
	loaded   bool
}

type boardSpinMsg struct{}

type boardPollMsg struct{}

// NewBoard returns a board that refreshes every interval.
func NewBoard(fetch BoardFetch, interval time.Duration) BoardModel {
	return BoardModel{Fetch: fetch, Interval: interval}
}

func boardSpin() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return boardSpinMsg{} })
}

func (m BoardModel) poll() tea.Cmd {
	return tea.Tick(m.Interval, func(time.Time) tea.Msg { return boardPollMsg{} })
}

func (m BoardModel) fetch() tea.Cmd {
	f := m.Fetch
	return func() tea.Msg { return f() }
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(boardSpin(), m.fetch())
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.Snap.Items)-1 {
				m.cursor++
			}
		case "r":
			if !m.Fetching {
				m.Fetching = true
				return m, m.fetch()
			}
		}

	case boardSpinMsg:
		m.Frame = (m.Frame + 1) % len(spinnerFrames)
		return m, boardSpin()

	case boardPollMsg:
		m.Fetching = true
		return m, m.fetch()

	case BoardSnapshot:
		m.Snap = msg
		m.Fetching = false
		m.loaded = true
		if m.cursor >= len(msg.Items) {
			m.cursor = max(len(msg.Items)-1, 0)
		}
		return m, m.poll()
	}

	return m, nil
}

func (m BoardModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	s := m.Snap

	sb.WriteString(StyleTitle.Render("Live Auctions"))
	if s.Network != "" {
		sb.WriteString(StyleMeta.Render("  ·  ") + ChainName(s.Network))
	}
	if s.Mode != "" {
		sb.WriteString(StyleMeta.Render("  ·  ") + Val(s.Mode))
	}
	sb.WriteString("\n")

	switch {
	case s.Err != "":
		sb.WriteString(StyleError.Render("✗ "+s.Err) + "\n\n")
	case m.Fetching || !m.loaded:
		sb.WriteString(StyleInfo.Render(spinnerFrames[m.Frame]+" refreshing…") + "\n\n")
	default:
		status := "  " + TruncateAddr(s.Account)
		if !s.LastSync.IsZero() {
			status += fmt.Sprintf("  ·  synced %s", s.LastSync.Format("15:04:05"))
		}
		if s.Pending > 0 {
			status += fmt.Sprintf("  ·  %d pending", s.Pending)
		}
		sb.WriteString(StyleMeta.Render(status) + "\n\n")
	}

	if len(s.Items) == 0 {
		if m.loaded {
			sb.WriteString(StyleMeta.Render("  No auction items yet.") + "\n")
		}
	} else {
		t := ItemTable(s.Items)
		t.SelIdx = m.cursor
		sb.WriteString(t.Render())
		sb.WriteString(StyleMeta.Render(fmt.Sprintf("  %d item(s)", len(s.Items))) + "\n")
	}

	sb.WriteString("\n" + boardControls() + "\n")
	return sb.String()
}

func boardControls() string {
	sep := StyleMeta.Render("   ")
	var sb strings.Builder
	sb.WriteString(padR(StyleMeta.Render("[ ↑↓ ]"), 7))
	sb.WriteString(StyleMeta.Render("navigate"))
	sb.WriteString(sep)
	sb.WriteString(padR(StyleInfo.Render("[ r ]"), 6))
	sb.WriteString(StyleMeta.Render("refresh"))
	sb.WriteString(sep)
	sb.WriteString(padR(StyleMeta.Render("[ q ]"), 6))
	sb.WriteString(StyleMeta.Render("quit"))
	return sb.String()
}
