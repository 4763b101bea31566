// Package tui renders the wallet card in the terminal with bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 200 * time.Millisecond

type tickMsg time.Time

type connectDoneMsg struct {
	view entity.WalletView
	err  error
}

type copyDoneMsg struct {
	copied bool
	err    error
}

// Model is the bubbletea model of the wallet card.
type Model struct {
	connector port.WalletConnector
	network   entity.NetworkDefinition
	view      entity.WalletView
	busy      bool
	status    string // local notice, e.g. a clipboard failure
	width     int
}

// New creates the model for connector.
func New(connector port.WalletConnector) Model {
	return Model{
		connector: connector,
		network:   connector.Network(),
		view:      connector.View(),
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func connectCmd(c port.WalletConnector) tea.Cmd {
	return func() tea.Msg {
		view, err := c.Connect(context.Background())
		return connectDoneMsg{view: view, err: err}
	}
}

func copyCmd(c port.WalletConnector) tea.Cmd {
	return func() tea.Msg {
		copied, err := c.CopyAddress(context.Background())
		return copyDoneMsg{copied: copied, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.view = m.connector.View()
		return m, tickCmd()
	case connectDoneMsg:
		m.busy = false
		m.view = msg.view
		return m, nil
	case copyDoneMsg:
		m.view = m.connector.View()
		if msg.err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", msg.err)
		} else {
			m.status = ""
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "c", "enter":
		if m.busy || m.view.ButtonDisabled {
			return m, nil
		}
		m.busy = true
		m.status = ""
		return m, connectCmd(m.connector)
	case "y":
		if m.view.AddressFull == "" {
			return m, nil
		}
		return m, copyCmd(m.connector)
	}
	return m, nil
}

func (m Model) View() string {
	v := m.view
	var b strings.Builder

	b.WriteString(titleStyle.Render("Wallet · "+m.network.Name) + "\n\n")
	if v.BannerVisible {
		b.WriteString(bannerStyle.Render(v.Banner) + "\n")
	}

	b.WriteString(row("Status", badgeStyle(v.StatusClass).Render(v.Status)))
	b.WriteString(row("Address", valueStyle.Render(v.Address)))
	network := valueStyle.Render(v.Network)
	if v.State == entity.StateWrongNetwork || (v.ChainID != "" && !v.NetworkCorrect) {
		network = wrongStyle.Render(v.Network)
	}
	b.WriteString(row("Network", network))
	b.WriteString(row("Balance", valueStyle.Render(v.Balance)))

	button := buttonStyle
	if v.ButtonDisabled {
		button = buttonDisabledStyle
	}
	b.WriteString(button.Render(v.ButtonText))

	if m.status != "" {
		b.WriteString("\n" + wrongStyle.Render(m.status))
	}
	b.WriteString("\n" + hintStyle.Render("c connect · y copy address · q quit"))

	return cardStyle.Render(b.String()) + "\n"
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}
