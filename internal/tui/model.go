package tui

import (
	"context"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

type changedMsg struct{}

type opResultMsg struct {
	op  string
	err error
}

// Model renders a session and forwards user input to it.
type Model struct {
	ctx  context.Context
	svc  domain.SessionService
	snap domain.Snapshot

	input  string
	notice string
	width  int
	height int
}

// New builds a model for svc. ctx bounds the background wait for changes.
func New(ctx context.Context, svc domain.SessionService) *Model {
	return &Model{ctx: ctx, svc: svc, snap: svc.Snapshot(), width: 80, height: 24}
}

// Init subscribes to session changes.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.svc.Changes():
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Update handles keys, window size and session notifications.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case changedMsg:
		m.snap = m.svc.Snapshot()
		return m, m.waitForChange()
	case opResultMsg:
		m.notice = ""
		// Blocked sends already appear in the session log.
		if msg.err != nil && !errors.Is(msg.err, domain.ErrSendBlocked) {
			m.notice = msg.op + ": " + msg.err.Error()
		}
		m.snap = m.svc.Snapshot()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlR:
		m.notice = "reconnecting..."
		return m, m.run("reconnect", m.svc.Reconnect)
	case tea.KeyCtrlD:
		m.svc.Disconnect()
		m.snap = m.svc.Snapshot()
		return m, nil
	case tea.KeyEnter:
		text := m.input
		m.input = ""
		if text == "" {
			return m, nil
		}
		return m, m.run("send", func(ctx context.Context) error {
			return m.svc.SendPlaintext(ctx, text)
		})
	case tea.KeyBackspace:
		if m.input != "" {
			_, size := utf8.DecodeLastRuneInString(m.input)
			m.input = m.input[:len(m.input)-size]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opResultMsg{op: op, err: fn(m.ctx)}
	}
}

// Input returns the pending input line.
func (m *Model) Input() string { return m.input }
