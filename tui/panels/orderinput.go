package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/limitbook/internal/book/core"
	"github.com/zappabad/limitbook/internal/market"
	"github.com/zappabad/limitbook/tui/styles"
)

// OrderAction is the kind of request the input panel submits.
type OrderAction int

const (
	ActionInsert OrderAction = iota
	ActionCancel
	ActionDrain
)

// OrderInputField represents the currently focused input field.
type OrderInputField int

const (
	FieldInstrument OrderInputField = iota
	FieldAction
	FieldSide
	FieldPrice
	FieldQty
	FieldOrderID
	FieldSubmit
)

// OrderInputPanel handles request input with instrument autocomplete.
type OrderInputPanel struct {
	instruments []market.Instrument

	instrumentInput textinput.Model
	priceInput      textinput.Model
	qtyInput        textinput.Model
	orderIDInput    textinput.Model

	showDropdown     bool
	dropdownItems    []string
	dropdownFiltered []string
	dropdownIndex    int

	actionOptions []string
	actionIndex   int

	sideOptions []string
	sideIndex   int

	currentField OrderInputField

	selectedInstrument *market.Instrument

	focused bool
	width   int
	height  int
}

// NewOrderInputPanel creates a new order input panel.
func NewOrderInputPanel(instruments []market.Instrument) *OrderInputPanel {
	names := make([]string, len(instruments))
	for i, ins := range instruments {
		names[i] = ins.Name
	}

	instrumentInput := textinput.New()
	instrumentInput.Placeholder = "Search instrument..."
	instrumentInput.Width = 15
	instrumentInput.CharLimit = 10

	priceInput := textinput.New()
	priceInput.Placeholder = "Price"
	priceInput.Width = 10
	priceInput.CharLimit = 15

	qtyInput := textinput.New()
	qtyInput.Placeholder = "Quantity"
	qtyInput.Width = 10
	qtyInput.CharLimit = 15

	orderIDInput := textinput.New()
	orderIDInput.Placeholder = "Order ID"
	orderIDInput.Width = 10
	orderIDInput.CharLimit = 15

	return &OrderInputPanel{
		instruments:      instruments,
		instrumentInput:  instrumentInput,
		priceInput:       priceInput,
		qtyInput:         qtyInput,
		orderIDInput:     orderIDInput,
		dropdownItems:    names,
		dropdownFiltered: names,
		actionOptions:    []string{"INSERT", "CANCEL", "DRAIN"},
		sideOptions:      []string{"BID", "ASK"},
		currentField:     FieldInstrument,
	}
}

// Init initializes the panel.
func (p *OrderInputPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *OrderInputPanel) Update(msg tea.Msg) (*OrderInputPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			p.prevField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if p.currentField == FieldSubmit {
				return p, p.submit()
			}
			if p.showDropdown && p.currentField == FieldInstrument {
				p.selectDropdownItem()
				p.showDropdown = false
				p.nextField()
				return p, nil
			}
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			p.showDropdown = false
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
			if p.showDropdown {
				if p.dropdownIndex > 0 {
					p.dropdownIndex--
				}
				return p, nil
			}
			if p.currentField == FieldAction {
				if p.actionIndex > 0 {
					p.actionIndex--
				}
				return p, nil
			}
			if p.currentField == FieldSide {
				if p.sideIndex > 0 {
					p.sideIndex--
				}
				return p, nil
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
			if p.showDropdown {
				if p.dropdownIndex < len(p.dropdownFiltered)-1 {
					p.dropdownIndex++
				}
				return p, nil
			}
			if p.currentField == FieldAction {
				if p.actionIndex < len(p.actionOptions)-1 {
					p.actionIndex++
				}
				return p, nil
			}
			if p.currentField == FieldSide {
				if p.sideIndex < len(p.sideOptions)-1 {
					p.sideIndex++
				}
				return p, nil
			}
		}
	}

	switch p.currentField {
	case FieldInstrument:
		p.instrumentInput, cmd = p.instrumentInput.Update(msg)
		p.filterDropdown(p.instrumentInput.Value())
		p.showDropdown = len(p.instrumentInput.Value()) > 0

	case FieldPrice:
		p.priceInput, cmd = p.priceInput.Update(msg)

	case FieldQty:
		p.qtyInput, cmd = p.qtyInput.Update(msg)

	case FieldOrderID:
		p.orderIDInput, cmd = p.orderIDInput.Update(msg)
	}

	return p, cmd
}

func (p *OrderInputPanel) action() OrderAction {
	return OrderAction(p.actionIndex)
}

// View renders the panel.
func (p *OrderInputPanel) View() string {
	var content strings.Builder

	content.WriteString(p.renderField("Instr\n", FieldInstrument, p.renderInstrumentField()))
	content.WriteString("\n")

	content.WriteString(p.renderField("Action", FieldAction, p.renderActionField()))
	content.WriteString("\n")

	if p.action() == ActionCancel {
		content.WriteString(p.renderField("ID", FieldOrderID, p.orderIDInput.View()))
		content.WriteString("\n")
	} else {
		content.WriteString(p.renderField("Side", FieldSide, p.renderSideField()))
		content.WriteString("\n")
		content.WriteString(p.renderField("Price", FieldPrice, p.priceInput.View()))
		content.WriteString("\n")
		content.WriteString(p.renderField("Qty", FieldQty, p.qtyInput.View()))
		content.WriteString("\n")
	}

	content.WriteString("\n")

	submitStyle := styles.InputStyle
	if p.currentField == FieldSubmit && p.focused {
		submitStyle = styles.FocusedInputStyle.Bold(true).Foreground(styles.PrimaryColor)
	}
	content.WriteString(submitStyle.Render("  [Submit]  "))

	content.WriteString("\n\n")
	content.WriteString(p.renderSummary())

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Order Entry", p.focused)
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(title + "\n" + content.String())
}

func (p *OrderInputPanel) renderField(label string, field OrderInputField, inputView string) string {
	labelStyle := styles.LabelStyle
	if p.currentField == field && p.focused {
		labelStyle = labelStyle.Foreground(styles.PrimaryColor)
	}
	labelStr := labelStyle.Render(fmt.Sprintf("%-8s", label))
	return labelStr + inputView
}

func (p *OrderInputPanel) renderInstrumentField() string {
	var result strings.Builder

	inputStyle := styles.InputStyle
	if p.currentField == FieldInstrument && p.focused {
		inputStyle = styles.FocusedInputStyle
		p.instrumentInput.Focus()
	} else {
		p.instrumentInput.Blur()
	}

	result.WriteString(inputStyle.Render(p.instrumentInput.View()))

	if p.showDropdown && len(p.dropdownFiltered) > 0 {
		result.WriteString("\n")
		maxShow := 5
		if len(p.dropdownFiltered) < maxShow {
			maxShow = len(p.dropdownFiltered)
		}

		for i := 0; i < maxShow; i++ {
			item := p.dropdownFiltered[i]
			style := styles.DropdownItemStyle
			if i == p.dropdownIndex {
				style = styles.DropdownSelectedStyle
			}

			highlighted := p.highlightMatch(item, p.instrumentInput.Value())
			result.WriteString("         " + style.Render(highlighted))
			if i < maxShow-1 {
				result.WriteString("\n")
			}
		}
	}

	return result.String()
}

func (p *OrderInputPanel) renderActionField() string {
	var items []string
	for i, opt := range p.actionOptions {
		style := styles.DropdownItemStyle
		if i == p.actionIndex {
			if p.currentField == FieldAction && p.focused {
				style = styles.DropdownSelectedStyle
			} else {
				style = styles.DropdownItemStyle.Bold(true)
			}
		}
		items = append(items, style.Render(opt))
	}
	return strings.Join(items, " | ")
}

func (p *OrderInputPanel) renderSideField() string {
	var items []string
	for i, opt := range p.sideOptions {
		style := styles.DropdownItemStyle
		if i == p.sideIndex {
			if p.currentField == FieldSide && p.focused {
				style = styles.DropdownSelectedStyle
			} else {
				style = styles.DropdownItemStyle.Bold(true)
			}
		}

		if opt == "BID" && i == p.sideIndex {
			style = style.Foreground(styles.BidColor)
		} else if opt == "ASK" && i == p.sideIndex {
			style = style.Foreground(styles.AskColor)
		}

		items = append(items, style.Render(opt))
	}
	return strings.Join(items, " | ")
}

func (p *OrderInputPanel) renderSummary() string {
	var parts []string

	name := p.instrumentInput.Value()
	if p.selectedInstrument != nil {
		name = p.selectedInstrument.Name
	}
	if name == "" {
		name = "---"
	}
	parts = append(parts, name)

	parts = append(parts, p.actionOptions[p.actionIndex])

	if p.action() == ActionCancel {
		id := p.orderIDInput.Value()
		if id == "" {
			id = "0"
		}
		parts = append(parts, "#"+id)
	} else {
		side := p.sideOptions[p.sideIndex]
		sideStyle := styles.BidStyle
		if side == "ASK" {
			sideStyle = styles.AskStyle
		}
		parts = append(parts, sideStyle.Render(side))

		price := p.priceInput.Value()
		if price == "" {
			price = "0"
		}
		parts = append(parts, "@"+price)

		qty := p.qtyInput.Value()
		if qty == "" {
			qty = "0"
		}
		parts = append(parts, "x"+qty)
	}

	return styles.HeaderStyle.Render("Request: ") + strings.Join(parts, " ")
}

func (p *OrderInputPanel) filterDropdown(query string) {
	query = strings.ToUpper(query)
	p.dropdownFiltered = nil
	p.dropdownIndex = 0

	for _, item := range p.dropdownItems {
		if strings.Contains(strings.ToUpper(item), query) {
			p.dropdownFiltered = append(p.dropdownFiltered, item)
		}
	}
}

func (p *OrderInputPanel) highlightMatch(item, query string) string {
	if query == "" {
		return item
	}

	upper := strings.ToUpper(item)
	queryUpper := strings.ToUpper(query)
	idx := strings.Index(upper, queryUpper)
	if idx == -1 {
		return item
	}

	before := item[:idx]
	match := item[idx : idx+len(query)]
	after := item[idx+len(query):]

	return before + styles.DropdownMatchStyle.Render(match) + after
}

func (p *OrderInputPanel) selectDropdownItem() {
	if p.dropdownIndex < len(p.dropdownFiltered) {
		selected := p.dropdownFiltered[p.dropdownIndex]
		p.instrumentInput.SetValue(selected)

		for i, ins := range p.instruments {
			if ins.Name == selected {
				p.selectedInstrument = &p.instruments[i]
				break
			}
		}
	}
}

func (p *OrderInputPanel) nextField() {
	p.showDropdown = false
	switch p.currentField {
	case FieldInstrument:
		p.selectDropdownItem()
		p.currentField = FieldAction
		p.instrumentInput.Blur()
	case FieldAction:
		if p.action() == ActionCancel {
			p.currentField = FieldOrderID
			p.orderIDInput.Focus()
		} else {
			p.currentField = FieldSide
		}
	case FieldSide:
		p.currentField = FieldPrice
		p.priceInput.Focus()
	case FieldPrice:
		p.currentField = FieldQty
		p.priceInput.Blur()
		p.qtyInput.Focus()
	case FieldQty:
		p.currentField = FieldSubmit
		p.qtyInput.Blur()
	case FieldOrderID:
		p.currentField = FieldSubmit
		p.orderIDInput.Blur()
	case FieldSubmit:
		p.currentField = FieldInstrument
		p.instrumentInput.Focus()
	}
}

func (p *OrderInputPanel) prevField() {
	p.showDropdown = false
	switch p.currentField {
	case FieldInstrument:
		p.currentField = FieldSubmit
		p.instrumentInput.Blur()
	case FieldAction:
		p.currentField = FieldInstrument
		p.instrumentInput.Focus()
	case FieldSide:
		p.currentField = FieldAction
	case FieldPrice:
		p.currentField = FieldSide
		p.priceInput.Blur()
	case FieldQty:
		p.currentField = FieldPrice
		p.qtyInput.Blur()
		p.priceInput.Focus()
	case FieldOrderID:
		p.currentField = FieldAction
		p.orderIDInput.Blur()
	case FieldSubmit:
		if p.action() == ActionCancel {
			p.currentField = FieldOrderID
			p.orderIDInput.Focus()
		} else {
			p.currentField = FieldQty
			p.qtyInput.Focus()
		}
	}
}

func (p *OrderInputPanel) submit() tea.Cmd {
	if p.selectedInstrument == nil {
		return nil
	}
	ins := *p.selectedInstrument

	if p.action() == ActionCancel {
		id, err := strconv.ParseInt(p.orderIDInput.Value(), 10, 64)
		if err != nil || id <= 0 {
			return nil
		}
		return func() tea.Msg {
			return OrderSubmitMsg{
				Instrument: ins,
				Action:     ActionCancel,
				OrderID:    core.OrderID(id),
			}
		}
	}

	qty, err := strconv.ParseInt(p.qtyInput.Value(), 10, 64)
	if err != nil || qty <= 0 {
		return nil
	}
	price, err := strconv.ParseInt(p.priceInput.Value(), 10, 64)
	if err != nil || price <= 0 {
		return nil
	}

	side := core.SideBid
	if p.sideIndex == 1 {
		side = core.SideAsk
	}
	action := p.action()

	return func() tea.Msg {
		return OrderSubmitMsg{
			Instrument: ins,
			Action:     action,
			Side:       side,
			Price:      core.Price(price),
			Qty:        core.Qty(qty),
		}
	}
}

// SetFocus sets the focus state of the panel.
func (p *OrderInputPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		switch p.currentField {
		case FieldInstrument:
			p.instrumentInput.Focus()
		case FieldPrice:
			p.priceInput.Focus()
		case FieldQty:
			p.qtyInput.Focus()
		case FieldOrderID:
			p.orderIDInput.Focus()
		}
	} else {
		p.instrumentInput.Blur()
		p.priceInput.Blur()
		p.qtyInput.Blur()
		p.orderIDInput.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *OrderInputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetInstrument pre-fills the instrument field.
func (p *OrderInputPanel) SetInstrument(ins market.Instrument) {
	p.instrumentInput.SetValue(ins.Name)
	p.selectedInstrument = &ins
}

// Reset clears the input fields.
func (p *OrderInputPanel) Reset() {
	p.instrumentInput.SetValue("")
	p.priceInput.SetValue("")
	p.qtyInput.SetValue("")
	p.orderIDInput.SetValue("")
	p.selectedInstrument = nil
	p.currentField = FieldInstrument
	p.actionIndex = 0
	p.sideIndex = 0
	p.showDropdown = false
}

// OrderSubmitMsg is sent when a request is submitted.
type OrderSubmitMsg struct {
	Instrument market.Instrument
	Action     OrderAction
	Side       core.Side
	Price      core.Price
	Qty        core.Qty
	OrderID    core.OrderID
}
