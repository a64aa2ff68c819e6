package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ringchat/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	selfStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	peerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	statusStyles = map[domain.KeyStatus]lipgloss.Style{
		domain.StatusIdle:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		domain.StatusGenerating:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusReady:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		domain.StatusUnavailable: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		domain.StatusError:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

const ringPanelWidth = 24

// View renders header, ring, log and input line.
func (m *Model) View() string {
	header := m.renderHeader()
	input := m.renderInput()
	footer := dimStyle.Render("enter send · ctrl+r reconnect · ctrl+d disconnect · esc quit")

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(footer) - 2
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	logWidth := m.width - ringPanelWidth - 4
	if logWidth < 20 {
		logWidth = 20
	}
	ring := panelStyle.Width(ringPanelWidth).Height(bodyHeight).Render(m.renderRing())
	log := panelStyle.Width(logWidth).Height(bodyHeight).Render(m.renderLog(bodyHeight))
	body := lipgloss.JoinHorizontal(lipgloss.Top, log, ring)

	parts := []string{header, body, input}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	s := m.snap
	conn := "disconnected"
	if s.Connected {
		conn = "connected"
	}
	if s.ConnError != "" {
		conn += " (" + s.ConnError + ")"
	}
	id := "-"
	if s.Self != "" {
		id = shortID(s.Self)
	}
	cycle := "-"
	if s.HasCycle {
		cycle = fmt.Sprintf("%d", s.CycleID)
	}
	fp := ""
	if s.Fingerprint != "" {
		fp = "  key " + s.Fingerprint.String()
	}
	status := statusStyles[s.Status].Render(s.Status.String())
	return titleStyle.Render("ringchat") + dimStyle.Render(fmt.Sprintf("  %s  id %s  cycle %s  ring %d  ", conn, id, cycle, s.RingSize)) + status + fp
}

func (m *Model) renderRing() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ring"))
	for i, id := range m.snap.Ring {
		line := fmt.Sprintf("\n%d. %s", i+1, shortID(id))
		if id == m.snap.Self {
			line = selfStyle.Render(line + " (you)")
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m *Model) renderLog(height int) string {
	entries := m.snap.Log
	if len(entries) > height {
		entries = entries[len(entries)-height:]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		ts := dimStyle.Render(e.Time.Format("15:04:05"))
		switch {
		case e.Kind == domain.EntrySystem:
			lines = append(lines, ts+" "+systemStyle.Render(e.Text))
		case e.From == "me":
			lines = append(lines, ts+" "+selfStyle.Render("me")+": "+e.Text)
		default:
			lines = append(lines, ts+" "+peerStyle.Render(shortID(domain.ClientID(e.From)))+": "+e.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderInput() string {
	prompt := "> "
	if !m.snap.CanSend {
		prompt = dimStyle.Render("(waiting for key) ") + prompt
	}
	return prompt + m.input + "█"
}

func shortID(id domain.ClientID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
