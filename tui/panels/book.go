package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/limitbook/internal/book/core"
	bookview "github.com/zappabad/limitbook/internal/book/view"
	"github.com/zappabad/limitbook/internal/market"
	"github.com/zappabad/limitbook/tui/styles"
)

// BookPanel displays the depth and recent fills for a selected instrument.
type BookPanel struct {
	instrument   market.Instrument
	bids         []bookview.Level
	asks         []bookview.Level
	fills        []core.FillEvent
	scrollOffset int
	focused      bool
	width        int
	height       int
	maxLevels    int
}

// NewBookPanel creates a new book panel.
func NewBookPanel() *BookPanel {
	return &BookPanel{
		maxLevels: 10,
	}
}

// Init initializes the panel.
func (p *BookPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *BookPanel) Update(msg tea.Msg) (*BookPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			p.scrollOffset++
		}
	}
	return p, nil
}

// View renders the panel.
func (p *BookPanel) View() string {
	var content strings.Builder

	name := "No instrument selected"
	if p.instrument.Name != "" {
		name = p.instrument.Name
	}

	availableHeight := p.height - 6
	levelsToShow := availableHeight / 2
	if levelsToShow > p.maxLevels {
		levelsToShow = p.maxLevels
	}
	if levelsToShow < 3 {
		levelsToShow = 3
	}

	header := fmt.Sprintf("%10s %8s │ %8s %10s", "BidQty", "Bid", "Ask", "AskQty")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	bidsToShow := p.bids
	if len(bidsToShow) > levelsToShow {
		bidsToShow = bidsToShow[:levelsToShow]
	}
	asksToShow := p.asks
	if len(asksToShow) > levelsToShow {
		asksToShow = asksToShow[:levelsToShow]
	}

	maxRows := len(bidsToShow)
	if len(asksToShow) > maxRows {
		maxRows = len(asksToShow)
	}

	for i := 0; i < maxRows; i++ {
		bidQty := ""
		bidPrice := ""
		askPrice := ""
		askQty := ""

		if i < len(bidsToShow) {
			bidQty = fmt.Sprintf("%d", bidsToShow[i].Qty)
			bidPrice = styles.FormatPrice(int64(bidsToShow[i].Price), p.instrument.Decimals)
		}
		if i < len(asksToShow) {
			askPrice = styles.FormatPrice(int64(asksToShow[i].Price), p.instrument.Decimals)
			askQty = fmt.Sprintf("%d", asksToShow[i].Qty)
		}

		bidPart := fmt.Sprintf("%10s %8s", bidQty, bidPrice)
		askPart := fmt.Sprintf("%8s %10s", askPrice, askQty)

		bidStyled := styles.BidStyle.Render(bidPart)
		askStyled := styles.AskStyle.Render(askPart)

		content.WriteString(fmt.Sprintf("%s │ %s\n", bidStyled, askStyled))
	}

	content.WriteString("\n")
	content.WriteString(styles.HeaderStyle.Render("Recent Fills"))
	content.WriteString("\n")

	fillsToShow := p.fills
	if len(fillsToShow) > 5 {
		fillsToShow = fillsToShow[len(fillsToShow)-5:]
	}

	for _, fill := range fillsToShow {
		price := styles.FormatPrice(int64(fill.Price), p.instrument.Decimals)
		qty := fmt.Sprintf("%d", fill.Qty)

		var sideStyle lipgloss.Style
		if fill.Side == core.SideBid {
			sideStyle = styles.BidStyle
		} else {
			sideStyle = styles.AskStyle
		}

		marker := " "
		if !fill.Full {
			marker = "*"
		}

		fillStr := fmt.Sprintf("%8s @ %8s %s", qty, price, marker)
		content.WriteString(sideStyle.Render(fillStr))
		content.WriteString("\n")
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("Book - %s", name), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *BookPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *BookPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetInstrument sets the instrument to display.
func (p *BookPanel) SetInstrument(ins market.Instrument) {
	p.instrument = ins
	p.bids = nil
	p.asks = nil
	p.fills = nil
	p.scrollOffset = 0
}

// SetLevels sets the depth levels.
func (p *BookPanel) SetLevels(bids, asks []bookview.Level) {
	p.bids = bids
	p.asks = asks
}

// SetFills sets the recent fills.
func (p *BookPanel) SetFills(fills []core.FillEvent) {
	p.fills = fills
}

// AddFill adds a fill to the display.
func (p *BookPanel) AddFill(fill core.FillEvent) {
	p.fills = append(p.fills, fill)
	if len(p.fills) > 20 {
		p.fills = p.fills[len(p.fills)-20:]
	}
}

// Instrument returns the current instrument.
func (p *BookPanel) Instrument() market.Instrument {
	return p.instrument
}
