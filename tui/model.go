package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/limitbook/internal/book/core"
	"github.com/zappabad/limitbook/internal/market"
	marketservice "github.com/zappabad/limitbook/internal/market/service"
	"github.com/zappabad/limitbook/tui/panels"
	"github.com/zappabad/limitbook/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusMarket     PanelFocus = 0
	FocusBook       PanelFocus = 1
	FocusOrderInput PanelFocus = 2
)

const panelCount = 3

// Model is the main TUI application model.
type Model struct {
	marketService *marketservice.MarketService

	instruments   []market.Instrument
	instrumentMap map[market.InstrumentID]market.Instrument

	marketPanel     *panels.MarketOverviewPanel
	bookPanel       *panels.BookPanel
	orderInputPanel *panels.OrderInputPanel

	focusedPanel PanelFocus

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model.
func NewModel(marketService *marketservice.MarketService) *Model {
	instruments := marketService.Instruments()

	instrumentMap := make(map[market.InstrumentID]market.Instrument)
	for _, ins := range instruments {
		instrumentMap[ins.InstrumentID()] = ins
	}

	marketPanel := panels.NewMarketOverviewPanel(instruments)
	bookPanel := panels.NewBookPanel()
	orderInputPanel := panels.NewOrderInputPanel(instruments)

	if len(instruments) > 0 {
		bookPanel.SetInstrument(instruments[0])
	}

	return &Model{
		marketService:   marketService,
		instruments:     instruments,
		instrumentMap:   instrumentMap,
		marketPanel:     marketPanel,
		bookPanel:       bookPanel,
		orderInputPanel: orderInputPanel,
		focusedPanel:    FocusOrderInput,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.marketPanel.Init(),
		m.bookPanel.Init(),
		m.orderInputPanel.Init(),
		m.listenMarketEvents(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % panelCount

		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = panelCount - 1
			}

		case "f1":
			m.focusedPanel = FocusMarket
		case "f2":
			m.focusedPanel = FocusBook
		case "f3":
			m.focusedPanel = FocusOrderInput
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case panels.MarketUpdateMsg:
		m.handleMarketUpdate(msg)
		cmds = append(cmds, m.listenMarketEvents())

	case panels.InstrumentSelectedMsg:
		m.bookPanel.SetInstrument(msg.Instrument)
		m.updateBookData()

	case panels.OrderSubmitMsg:
		cmds = append(cmds, m.submitRequest(msg))

	case requestResultMsg:
		m.statusMsg = msg.message

	case tickMsg:
		m.updateAllData()
		cmds = append(cmds, m.tickRefresh())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusMarket:
		m.marketPanel, cmd = m.marketPanel.Update(msg)
		selected := m.marketPanel.SelectedInstrument()
		if selected.Name != "" && selected.Name != m.bookPanel.Instrument().Name {
			m.bookPanel.SetInstrument(selected)
			m.updateBookData()
		}
	case FocusBook:
		m.bookPanel, cmd = m.bookPanel.Update(msg)
	case FocusOrderInput:
		m.orderInputPanel, cmd = m.orderInputPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.marketPanel.SetFocus(m.focusedPanel == FocusMarket)
	m.bookPanel.SetFocus(m.focusedPanel == FocusBook)
	m.orderInputPanel.SetFocus(m.focusedPanel == FocusOrderInput)

	// Layout:
	// ┌──────────────────────┬──────────────────────┐
	// │   Market Overview    │        Book          │
	// ├──────────────────────┴──────────────────────┤
	// │                Order Entry                  │
	// └─────────────────────────────────────────────┘

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	topHeight := (m.height - 3) * 2 / 3
	bottomHeight := m.height - topHeight - 3

	m.marketPanel.SetSize(leftWidth, topHeight)
	m.bookPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.marketPanel.View(),
		m.bookPanel.View(),
	)

	m.orderInputPanel.SetSize(m.width, bottomHeight)
	bottomRow := m.orderInputPanel.View()

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, statusBar)
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F3") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("Tab/Enter") + styles.StatusBarDescStyle.Render(" navigate"),
		styles.StatusBarKeyStyle.Render("↑↓") + styles.StatusBarDescStyle.Render(" select"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center, help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3])

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) handleMarketUpdate(msg panels.MarketUpdateMsg) {
	snap := m.marketService.Snapshot()
	m.marketPanel.SetSnapshot(snap)

	if ins, ok := m.instrumentMap[msg.Instrument]; ok {
		if ins.Name == m.bookPanel.Instrument().Name {
			bids, _ := m.marketService.Depth(msg.Instrument, core.SideBid)
			asks, _ := m.marketService.Depth(msg.Instrument, core.SideAsk)
			m.bookPanel.SetLevels(bids, asks)

			if fill, ok := msg.Event.(core.FillEvent); ok {
				m.bookPanel.AddFill(fill)
			}
		}
	}
}

func (m *Model) updateAllData() {
	snap := m.marketService.Snapshot()
	m.marketPanel.SetSnapshot(snap)
	m.updateBookData()
}

func (m *Model) updateBookData() {
	ins := m.bookPanel.Instrument()
	if ins.Name == "" {
		return
	}

	iid := ins.InstrumentID()
	bids, _ := m.marketService.Depth(iid, core.SideBid)
	asks, _ := m.marketService.Depth(iid, core.SideAsk)
	m.bookPanel.SetLevels(bids, asks)

	fills, _ := m.marketService.FillsLast(iid, 20)
	m.bookPanel.SetFills(fills)
}

func (m *Model) submitRequest(req panels.OrderSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		iid := req.Instrument.InstrumentID()

		switch req.Action {
		case panels.ActionInsert:
			report, err := m.marketService.Insert(ctx, iid, req.Side, req.Price, req.Qty)
			if err != nil {
				return requestResultMsg{message: "Insert failed: " + err.Error()}
			}
			return requestResultMsg{message: fmt.Sprintf("Resting (ID: %d)", report.OrderID)}

		case panels.ActionCancel:
			report, err := m.marketService.Cancel(ctx, iid, req.OrderID)
			if err != nil {
				return requestResultMsg{message: "Cancel failed: " + err.Error()}
			}
			return requestResultMsg{message: fmt.Sprintf("Canceled %d (ID: %d)", report.CanceledQty, report.OrderID)}

		case panels.ActionDrain:
			report, err := m.marketService.Drain(ctx, iid, req.Side, req.Price, req.Qty)
			if err != nil {
				return requestResultMsg{message: "Drain failed: " + err.Error()}
			}
			if !report.Found {
				return requestResultMsg{message: fmt.Sprintf("No orders at %d", req.Price)}
			}
			return requestResultMsg{message: fmt.Sprintf("Filled %d @ %d (%d pieces)", report.FilledQty, req.Price, len(report.Fills))}
		}

		return nil
	}
}

func (m *Model) listenMarketEvents() tea.Cmd {
	return func() tea.Msg {
		events := m.marketService.Events()
		ev, ok := <-events
		if !ok {
			return nil
		}
		return panels.MarketUpdateMsg{
			Instrument: ev.Instrument,
			Event:      ev.Event,
		}
	}
}

// tickMsg is sent periodically to refresh data.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// requestResultMsg is sent after a request is processed.
type requestResultMsg struct {
	message string
}
