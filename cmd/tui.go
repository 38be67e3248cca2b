// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Christian Gudrian

package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live bus monitor with scrollback and statistics",
	Long: `Interactive live view of BiDiB bus traffic.

Shows a scrolling log of decoded messages together with message and
error counters (CRC and message parse errors). Use the arrow keys or PgUp/PgDn to scroll, q to
quit.`,
	RunE: runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57")).Padding(0, 1)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tuiMsgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Bus events delivered into the bubbletea program
type busMsgEvent struct {
	msg bidib.Msg
}

type busErrorEvent struct {
	err error
}

type busClosedEvent struct{}

type tuiModel struct {
	connInfo string
	events   chan tea.Msg

	viewport  viewport.Model
	ready     bool
	follow    bool
	lines     []string
	maxLines  int
	msgCount  int
	errCount  int
	quitting  bool
	closed    bool
}

func newTuiModel(connInfo string, events chan tea.Msg) tuiModel {
	return tuiModel{
		connInfo: connInfo,
		events:   events,
		follow:   true,
		maxLines: 1000,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return waitForBusEvent(m.events)
}

func waitForBusEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "f":
			m.follow = !m.follow
		}

	case tea.WindowSizeMsg:
		headerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.refresh()

	case busMsgEvent:
		m.msgCount++
		line := fmt.Sprintf("%s %s", time.Now().Format("15:04:05.000"), bidib.FormatMsg(msg.msg))
		m.appendLine(tuiMsgStyle.Render(line))
		return m, waitForBusEvent(m.events)

	case busErrorEvent:
		m.errCount++
		line := fmt.Sprintf("%s [ERROR] %v", time.Now().Format("15:04:05.000"), msg.err)
		m.appendLine(tuiErrorStyle.Render(line))
		return m, waitForBusEvent(m.events)

	case busClosedEvent:
		m.closed = true
		m.appendLine(tuiErrorStyle.Render("connection closed"))
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *tuiModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
	m.refresh()
}

func (m *tuiModel) refresh() {
	if !m.ready {
		return
	}
	content := ""
	for _, l := range m.lines {
		content += l + "\n"
	}
	m.viewport.SetContent(content)
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting..."
	}

	title := tuiTitleStyle.Render("qbidib bus monitor")
	conn := m.connInfo
	if m.closed {
		conn += " (closed)"
	}
	status := tuiStatusStyle.Render(fmt.Sprintf("%s  messages: %d  errors: %d  follow: %v",
		conn, m.msgCount, m.errCount, m.follow))

	return fmt.Sprintf("%s\n%s\n\n%s", title, status, m.viewport.View())
}

func runTui(cmd *cobra.Command, args []string) error {
	tr, connInfo, err := OpenTransport()
	if err != nil {
		return err
	}
	defer tr.Close()

	events := make(chan tea.Msg, 64)
	go readBus(tr, events)

	p := tea.NewProgram(newTuiModel(connInfo, events), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// readBus decodes incoming traffic and forwards it as bubbletea events.
func readBus(tr *Transport, events chan tea.Msg) {
	for {
		frames, err := tr.ReadFrames()
		for _, frame := range frames {
			packet, err := bidib.DecodeFrame(frame)
			if err != nil {
				events <- busErrorEvent{err: err}
				continue
			}
			msgs := bidib.SplitFrame(packet, func(err error, record []byte) {
				events <- busErrorEvent{err: err}
			})
			for _, m := range msgs {
				events <- busMsgEvent{msg: m}
			}
		}
		if err != nil {
			events <- busClosedEvent{}
			return
		}
	}
}
