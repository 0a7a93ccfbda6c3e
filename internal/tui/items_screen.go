package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/swiftbill/internal/app"
	"github.com/andy/swiftbill/internal/domain"
)

type itemMode int

const (
	itemModeList itemMode = iota
	itemModeSearch
	itemModeForm
	itemModeConfirmDelete
)

const (
	itemFieldName = iota
	itemFieldDescription
	itemFieldPrice
	itemFieldUnit
)

// ItemsModel manages the catalog of billable items and services
type ItemsModel struct {
	app       *app.App
	items     []domain.Item
	cursor    int
	search    textinput.Model
	mode      itemMode
	form      form
	editingID string
	loading   bool
	err       error
	statusMsg string
}

type itemsDataMsg struct {
	items []domain.Item
	err   error
}

type itemSavedMsg struct {
	name string
	err  error
}

type itemDeletedMsg struct {
	name string
	err  error
}

// NewItemsModel creates the items screen
func NewItemsModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "name or description"
	search.Prompt = "/ "
	search.Width = 40

	return &ItemsModel{
		app:     a,
		search:  search,
		loading: true,
	}
}

func (m *ItemsModel) IsCapturingInput() bool {
	return m.mode == itemModeForm || m.mode == itemModeSearch
}

func (m *ItemsModel) Init() tea.Cmd {
	return m.loadItems()
}

func (m *ItemsModel) loadItems() tea.Cmd {
	term := m.search.Value()
	return func() tea.Msg {
		items, err := m.app.ItemService.Search(context.Background(), term)
		return itemsDataMsg{items: items, err: err}
	}
}

func (m *ItemsModel) initForm(editing *domain.Item) tea.Cmd {
	units := make([]string, len(domain.Units))
	for i, u := range domain.Units {
		units[i] = string(u)
	}

	m.form = form{fields: []formField{
		newField("Name:", "name", "Design work", 100, 40),
		newField("Description:", "description", "Optional", 200, 60),
		newField("Unit price:", "unitPrice", "150.00", 15, 15),
		newField("Unit ("+strings.Join(units, ", ")+"):", "unit", string(domain.UnitHour), 10, 10),
	}}

	m.editingID = ""
	if editing != nil {
		m.form.set(itemFieldName, editing.Name)
		m.form.set(itemFieldDescription, editing.Description)
		m.form.set(itemFieldPrice, formatNumber(editing.UnitPrice))
		m.form.set(itemFieldUnit, string(editing.Unit))
		m.editingID = editing.ID
	}

	m.mode = itemModeForm
	return m.form.focusFirst()
}

func (m *ItemsModel) saveItem() tea.Cmd {
	in := domain.ItemInput{
		Name:        m.form.value(itemFieldName),
		Description: m.form.value(itemFieldDescription),
		UnitPrice:   m.form.value(itemFieldPrice),
		Unit:        strings.ToLower(strings.TrimSpace(m.form.value(itemFieldUnit))),
	}
	id := m.editingID
	return func() tea.Msg {
		ctx := context.Background()

		var (
			item domain.Item
			err  error
		)
		if id != "" {
			item, err = m.app.ItemService.Update(ctx, id, in)
		} else {
			item, err = m.app.ItemService.Create(ctx, in)
		}
		return itemSavedMsg{name: item.Name, err: err}
	}
}

func (m *ItemsModel) deleteItem() tea.Cmd {
	item := m.items[m.cursor]
	return func() tea.Msg {
		err := m.app.ItemService.Delete(context.Background(), item.ID)
		return itemDeletedMsg{name: item.Name, err: err}
	}
}

func (m *ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadItems()

	case itemsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.items = msg.items
			if m.cursor >= len(m.items) {
				m.cursor = max(0, len(m.items)-1)
			}
		}
		return m, nil

	case itemSavedMsg:
		if msg.err != nil {
			m.form.fail(msg.err)
			return m, nil
		}
		m.mode = itemModeList
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadItems()

	case itemDeletedMsg:
		m.mode = itemModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadItems()
	}

	switch m.mode {
	case itemModeForm:
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
			m.mode = itemModeList
			return m, nil
		}
		cmd, submit := m.form.update(msg)
		if submit {
			return m, m.saveItem()
		}
		return m, cmd

	case itemModeSearch:
		if msg, ok := msg.(tea.KeyMsg); ok && (msg.String() == "enter" || msg.String() == "esc") {
			m.search.Blur()
			m.mode = itemModeList
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.cursor = 0
			return m, tea.Batch(cmd, m.loadItems())
		}
		return m, cmd

	case itemModeConfirmDelete:
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, DefaultKeyMap.Confirm) && len(m.items) > 0 {
				return m, m.deleteItem()
			}
			m.mode = itemModeList
		}
		return m, nil
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil

	switch {
	case key.Matches(msgKey, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msgKey, DefaultKeyMap.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msgKey, DefaultKeyMap.New):
		return m, m.initForm(nil)
	case key.Matches(msgKey, DefaultKeyMap.Select), key.Matches(msgKey, DefaultKeyMap.Edit):
		if len(m.items) > 0 {
			item := m.items[m.cursor]
			return m, m.initForm(&item)
		}
	case key.Matches(msgKey, DefaultKeyMap.Delete):
		if len(m.items) > 0 {
			m.mode = itemModeConfirmDelete
		}
	case key.Matches(msgKey, DefaultKeyMap.Search):
		m.mode = itemModeSearch
		return m, m.search.Focus()
	case key.Matches(msgKey, DefaultKeyMap.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.loading = true
			return m, m.loadItems()
		}
	}

	return m, nil
}

func (m *ItemsModel) View() string {
	if m.mode == itemModeForm {
		if m.editingID != "" {
			return m.form.view("Edit Item")
		}
		return m.form.view("New Item")
	}

	if m.loading && m.items == nil {
		return "Loading items..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Items & Services") + "\n")
	if m.mode == itemModeSearch || m.search.Value() != "" {
		s.WriteString(m.search.View() + "\n")
	}
	s.WriteString("\n")

	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render("  "+m.statusMsg) + "\n\n")
	}

	if len(m.items) == 0 {
		if m.search.Value() != "" {
			s.WriteString(subtitleStyle.Render("  No items match your search.") + "\n")
		} else {
			s.WriteString(subtitleStyle.Render("  No items yet. Press 'n' to add one.") + "\n")
		}
		return s.String()
	}

	fmt.Fprintf(&s, "  %-26s %-34s %12s  %s\n", "Name", "Description", "Price", "Unit")
	for i, item := range m.items {
		row := fmt.Sprintf("%-26s %-34s %12s  %s",
			truncateStr(item.Name, 26),
			truncateStr(item.Description, 34),
			formatMoney(item.UnitPrice),
			item.Unit,
		)
		if i == m.cursor {
			s.WriteString("> " + selectedStyle.Render(row) + "\n")
		} else {
			s.WriteString("  " + row + "\n")
		}
	}

	if m.mode == itemModeConfirmDelete {
		s.WriteString("\n" + confirmLine(fmt.Sprintf("item %q", m.items[m.cursor].Name)) + "\n")
		return s.String()
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  n: new  enter/e: edit  d: delete  /: search"))
	return s.String()
}
