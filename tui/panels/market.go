package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/limitbook/internal/book/core"
	"github.com/zappabad/limitbook/internal/market"
	marketview "github.com/zappabad/limitbook/internal/market/view"
	"github.com/zappabad/limitbook/tui/styles"
)

// MarketOverviewPanel displays current quotes for all instruments.
type MarketOverviewPanel struct {
	instruments   []market.Instrument
	quotes        map[market.InstrumentID]marketview.Quote
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewMarketOverviewPanel creates a new market overview panel.
func NewMarketOverviewPanel(instruments []market.Instrument) *MarketOverviewPanel {
	return &MarketOverviewPanel{
		instruments: instruments,
		quotes:      make(map[market.InstrumentID]marketview.Quote),
	}
}

// Init initializes the panel.
func (p *MarketOverviewPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *MarketOverviewPanel) Update(msg tea.Msg) (*MarketOverviewPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.instruments)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *MarketOverviewPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-8s %10s %8s %10s %8s %10s",
		"Name", "Bid", "BidQty", "Ask", "AskQty", "Last")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, ins := range p.instruments {
		q := p.quotes[ins.InstrumentID()]

		bidPrice := "-"
		bidQty := "-"
		askPrice := "-"
		askQty := "-"
		last := "-"

		if q.BidOK {
			bidPrice = styles.FormatPrice(int64(q.BidPrice), ins.Decimals)
			bidQty = fmt.Sprintf("%d", q.BidQty)
		}
		if q.AskOK {
			askPrice = styles.FormatPrice(int64(q.AskPrice), ins.Decimals)
			askQty = fmt.Sprintf("%d", q.AskQty)
		}
		if q.HasLast {
			last = styles.FormatPrice(int64(q.LastPrice), ins.Decimals)
		}

		row := fmt.Sprintf("%-8s %10s %8s %10s %8s %10s",
			ins.Name, bidPrice, bidQty, askPrice, askQty, last)

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		if i < len(p.instruments)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Market Overview", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *MarketOverviewPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *MarketOverviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot sets all quotes from a market snapshot.
func (p *MarketOverviewPanel) SetSnapshot(snap marketview.MarketSnapshot) {
	for iid, q := range snap.ByInstrument {
		p.quotes[iid] = q
	}
}

// SelectedInstrument returns the currently selected instrument.
func (p *MarketOverviewPanel) SelectedInstrument() market.Instrument {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.instruments) {
		return p.instruments[p.selectedIndex]
	}
	return market.Instrument{}
}

// InstrumentSelectedMsg is sent when an instrument is selected.
type InstrumentSelectedMsg struct {
	Instrument market.Instrument
}

// MarketUpdateMsg is sent when market data updates.
type MarketUpdateMsg struct {
	Instrument market.InstrumentID
	Event      core.Event
}
