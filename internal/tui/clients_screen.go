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

// clientMode represents the current screen mode
type clientMode int

const (
	clientModeList clientMode = iota
	clientModeSearch
	clientModeNew
	clientModeEdit
	clientModeConfirmDelete
)

// form field indices
const (
	clientFieldName = iota
	clientFieldContact
	clientFieldEmail
	clientFieldPhone
	clientFieldAddress
	clientFieldTaxID
)

// ClientsModel displays a searchable list of clients with create/edit forms
type ClientsModel struct {
	app       *app.App
	clients   []domain.Client
	cursor    int
	search    textinput.Model
	loading   bool
	err       error
	statusMsg string

	// Form state
	mode          clientMode
	form          form
	editingID     string // empty for new client
	autoNewClient bool   // open new client form after data loads
}

type clientsDataMsg struct {
	clients []domain.Client
	err     error
}

type clientSavedMsg struct {
	name string
	err  error
}

type clientDeletedMsg struct {
	name string
	err  error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "name, email, or contact"
	search.Prompt = "/ "
	search.Width = 40

	return &ClientsModel{
		app:     a,
		search:  search,
		loading: true,
	}
}

// IsCapturingInput returns true when a form or the search box is active
func (m *ClientsModel) IsCapturingInput() bool {
	return m.mode == clientModeNew || m.mode == clientModeEdit || m.mode == clientModeSearch
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	term := m.search.Value()
	return func() tea.Msg {
		clients, err := m.app.ClientService.Search(context.Background(), term)
		return clientsDataMsg{clients: clients, err: err}
	}
}

func (m *ClientsModel) initForm(editing *domain.Client) tea.Cmd {
	m.form = form{fields: []formField{
		newField("Name:", "name", "Client name", 100, 40),
		newField("Contact person:", "contactPerson", "Optional", 100, 40),
		newField("Email:", "email", "billing@example.com", 100, 40),
		newField("Phone:", "phone", "Optional", 40, 20),
		newField("Address:", "address", "Optional", 200, 60),
		newField("Tax ID:", "taxId", "Optional", 40, 20),
	}}

	// Pre-fill for editing
	if editing != nil {
		m.form.set(clientFieldName, editing.Name)
		m.form.set(clientFieldContact, editing.ContactPerson)
		m.form.set(clientFieldEmail, editing.Email)
		m.form.set(clientFieldPhone, editing.Phone)
		m.form.set(clientFieldAddress, editing.Address)
		m.form.set(clientFieldTaxID, editing.TaxID)
		m.editingID = editing.ID
		m.mode = clientModeEdit
	} else {
		m.editingID = ""
		m.mode = clientModeNew
	}

	return m.form.focusFirst()
}

func (m *ClientsModel) formInput() domain.ClientInput {
	return domain.ClientInput{
		Name:          m.form.value(clientFieldName),
		ContactPerson: m.form.value(clientFieldContact),
		Email:         m.form.value(clientFieldEmail),
		Phone:         m.form.value(clientFieldPhone),
		Address:       m.form.value(clientFieldAddress),
		TaxID:         m.form.value(clientFieldTaxID),
	}
}

func (m *ClientsModel) saveClient() tea.Cmd {
	in := m.formInput()
	id := m.editingID
	return func() tea.Msg {
		ctx := context.Background()

		var (
			client domain.Client
			err    error
		)
		if id != "" {
			client, err = m.app.ClientService.Update(ctx, id, in)
		} else {
			client, err = m.app.ClientService.Create(ctx, in)
		}
		if err != nil {
			return clientSavedMsg{err: err}
		}
		return clientSavedMsg{name: client.Name}
	}
}

func (m *ClientsModel) deleteClient() tea.Cmd {
	client := m.clients[m.cursor]
	return func() tea.Msg {
		err := m.app.ClientService.Delete(context.Background(), client.ID)
		return clientDeletedMsg{name: client.Name, err: err}
	}
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewClientFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewClientFormMsg); ok {
		if m.loading {
			// Data hasn't loaded yet; set flag to auto-open form when it does
			m.autoNewClient = true
			return m, nil
		}
		return m, m.initForm(nil)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			if m.cursor >= len(m.clients) {
				m.cursor = max(0, len(m.clients)-1)
			}
		}
		// Auto-open new client form on first run
		if m.autoNewClient {
			m.autoNewClient = false
			return m, m.initForm(nil)
		}
		return m, nil

	case clientSavedMsg:
		if msg.err != nil {
			m.form.fail(msg.err)
			return m, nil
		}
		m.mode = clientModeList
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadClients()

	case clientDeletedMsg:
		m.mode = clientModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadClients()
	}

	switch m.mode {
	case clientModeNew, clientModeEdit:
		return m.updateForm(msg)
	case clientModeSearch:
		return m.updateSearch(msg)
	case clientModeConfirmDelete:
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, DefaultKeyMap.Confirm) && len(m.clients) > 0 {
				return m, m.deleteClient()
			}
			m.mode = clientModeList
		}
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.updateList(msg)
	}
	return m, nil
}

func (m *ClientsModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.clients)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.New):
		return m, m.initForm(nil)
	case key.Matches(msg, DefaultKeyMap.Select), key.Matches(msg, DefaultKeyMap.Edit):
		if len(m.clients) > 0 {
			client := m.clients[m.cursor]
			return m, m.initForm(&client)
		}
	case key.Matches(msg, DefaultKeyMap.Delete):
		if len(m.clients) > 0 {
			m.mode = clientModeConfirmDelete
		}
	case key.Matches(msg, DefaultKeyMap.Search):
		m.mode = clientModeSearch
		return m, m.search.Focus()
	case key.Matches(msg, DefaultKeyMap.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.loading = true
			return m, m.loadClients()
		}
	}

	return m, nil
}

func (m *ClientsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc":
			m.search.Blur()
			m.mode = clientModeList
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadClients())
	}
	return m, cmd
}

func (m *ClientsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		// Cancel form
		m.mode = clientModeList
		return m, nil
	}

	cmd, submit := m.form.update(msg)
	if submit {
		return m, m.saveClient()
	}
	return m, cmd
}

func (m *ClientsModel) View() string {
	switch m.mode {
	case clientModeNew:
		title := "New Client"
		if len(m.clients) == 0 && m.search.Value() == "" {
			title = "Add your first client"
		}
		return m.form.view(title)
	case clientModeEdit:
		return m.form.view("Edit Client")
	}
	return m.viewList()
}

func (m *ClientsModel) viewList() string {
	if m.loading && m.clients == nil {
		return "Loading clients..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Clients") + "\n")
	if m.mode == clientModeSearch || m.search.Value() != "" {
		s.WriteString(m.search.View() + "\n")
	}
	s.WriteString("\n")

	// Status message
	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render("  "+m.statusMsg) + "\n\n")
	}

	if len(m.clients) == 0 {
		if m.search.Value() != "" {
			s.WriteString(subtitleStyle.Render("  No clients match your search.") + "\n")
		} else {
			s.WriteString(subtitleStyle.Render("  No clients yet. Press 'n' to add one.") + "\n")
		}
		return s.String()
	}

	for i := range m.clients {
		s.WriteString(m.renderClient(i, m.clients[i]) + "\n")
	}

	if m.mode == clientModeConfirmDelete {
		s.WriteString("\n" + confirmLine(fmt.Sprintf("client %q", m.clients[m.cursor].Name)) + "\n")
		s.WriteString(subtitleStyle.Render("  Existing invoices keep the client's name.") + "\n")
		return s.String()
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  n: new  enter/e: edit  d: delete  /: search"))
	return s.String()
}

func (m *ClientsModel) renderClient(index int, client domain.Client) string {
	selected := index == m.cursor

	indicator := "  "
	nameStyle := focusStyle.UnsetForeground().UnsetBold()
	if selected {
		indicator = "> "
		nameStyle = focusStyle
	}

	line1 := fmt.Sprintf("%s%s", indicator, client.Name)

	details := []string{client.Email}
	if client.ContactPerson != "" {
		details = append(details, client.ContactPerson)
	}
	if client.Phone != "" {
		details = append(details, client.Phone)
	}
	line2 := "    " + strings.Join(details, "  |  ")

	return nameStyle.Render(line1) + "\n" + subtitleStyle.Render(line2)
}
