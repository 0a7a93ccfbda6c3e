package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/swiftbill/internal/app"
	"github.com/andy/swiftbill/internal/config"
	"github.com/andy/swiftbill/internal/domain"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Invoice.OutputDir = t.TempDir()

	a, err := app.NewEphemeral(cfg, nil)
	if err != nil {
		t.Fatalf("NewEphemeral() error = %v", err)
	}
	return a
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from domain.InvoiceStatus
		want domain.InvoiceStatus
	}{
		{domain.InvoiceStatusDraft, domain.InvoiceStatusSent},
		{domain.InvoiceStatusSent, domain.InvoiceStatusPaid},
		{domain.InvoiceStatusPaid, domain.InvoiceStatusOverdue},
		{domain.InvoiceStatusOverdue, domain.InvoiceStatusCancelled},
		{domain.InvoiceStatusCancelled, domain.InvoiceStatusDraft},
		{"bogus", domain.InvoiceStatusDraft},
	}

	for _, tt := range tests {
		if got := nextStatus(tt.from); got != tt.want {
			t.Errorf("nextStatus(%q) = %q, want %q", tt.from, got, tt.want)
		}
	}
}

func TestMatchClient(t *testing.T) {
	clients := []domain.Client{
		{ID: "abc123", Name: "Acme"},
		{ID: "abd456", Name: "Globex"},
		{ID: "xyz789", Name: "Initech"},
	}

	tests := []struct {
		name   string
		ref    string
		wantID string
		wantOK bool
	}{
		{"exact id", "abd456", "abd456", true},
		{"name ignores case", "globex", "abd456", true},
		{"unique prefix", "xy", "xyz789", true},
		{"ambiguous prefix", "ab", "", false},
		{"blank", "  ", "", false},
		{"unknown", "Umbrella", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := matchClient(clients, tt.ref)
			if ok != tt.wantOK || c.ID != tt.wantID {
				t.Errorf("matchClient(%q) = (%q, %v), want (%q, %v)", tt.ref, c.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestInvoiceForm_InputAndTotals(t *testing.T) {
	clients := []domain.Client{{ID: "c1", Name: "Acme"}}

	var f invoiceForm
	f.load("", domain.InvoiceInput{
		ClientID:     "c1",
		Date:         "2024-03-01",
		DueDate:      "2024-03-31",
		TaxRate:      10,
		DiscountType: domain.DiscountFixed,
	}, clients)

	if got := f.value(invFieldClient); got != "Acme" {
		t.Fatalf("client field = %q, want Acme", got)
	}
	if len(f.lines) != 1 {
		t.Fatalf("new form has %d lines, want 1 blank line", len(f.lines))
	}

	// fill the blank line and add a second one
	f.set(invFixedFields, "Consulting")
	f.set(invFixedFields+1, "10")
	f.set(invFixedFields+2, "100")
	f.addLine(domain.NewInvoiceItem("Hosting", 2, 25), false)
	f.set(invFieldDiscount, "50")

	in, v := f.input()
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
	if in.ClientID != "c1" {
		t.Errorf("ClientID = %q, want c1", in.ClientID)
	}
	if len(in.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(in.Items))
	}
	if in.Items[0].Total != 1000 || in.Items[1].Total != 50 {
		t.Errorf("line totals = %v, %v", in.Items[0].Total, in.Items[1].Total)
	}

	totals, rate := f.totals()
	if rate != 10 {
		t.Errorf("tax rate = %v, want 10", rate)
	}
	// 1050 + 105 tax - 50 fixed discount
	if totals.Subtotal != 1050 || totals.TaxAmount != 105 || totals.Total != 1105 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestInvoiceForm_UnknownClient(t *testing.T) {
	var f invoiceForm
	f.load("", domain.InvoiceInput{}, []domain.Client{{ID: "c1", Name: "Acme"}})
	f.set(invFieldClient, "Nobody")

	_, v := f.input()
	if _, ok := v["clientId"]; !ok {
		t.Errorf("expected clientId violation, got %v", v)
	}
}

func TestInvoiceForm_AddAndRemoveLines(t *testing.T) {
	var f invoiceForm
	f.load("", domain.InvoiceInput{
		Items: []domain.InvoiceItem{
			domain.NewInvoiceItem("A", 1, 10),
			domain.NewInvoiceItem("B", 1, 20),
		},
	}, nil)

	if got, want := len(f.fields), invFixedFields+2*lineWidth+1; got != want {
		t.Fatalf("field count = %d, want %d", got, want)
	}

	f.addLine(domain.NewInvoiceItem("", 1, 0), true)
	if line, ok := f.lineAt(f.focus); !ok || line != 2 {
		t.Fatalf("focus on line %d (%v), want new line 2", line, ok)
	}
	if !strings.HasSuffix(f.fields[f.catalogIndex()].label, "catalog:") {
		t.Errorf("catalog picker is not the last field")
	}

	// focus the first line and remove it
	f.focus = invFixedFields
	f.removeFocusedLine()

	in, _ := f.input()
	if len(in.Items) != 1 || in.Items[0].Description != "B" {
		t.Errorf("items after remove = %+v, want only B", in.Items)
	}
	if len(f.lines) != 2 {
		t.Errorf("lines = %d, want 2 (B and the blank line)", len(f.lines))
	}
}

func TestInvoiceForm_AddCatalogLine(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	item, err := a.ItemService.Create(ctx, domain.ItemInput{Name: "Design", UnitPrice: "80", Unit: "hour"})
	if err != nil {
		t.Fatalf("Create item: %v", err)
	}

	var f invoiceForm
	f.load("", domain.InvoiceInput{}, nil)
	f.set(f.catalogIndex(), "design")
	f.addCatalogLine(a.InvoiceService, []domain.Item{item})

	if f.err != nil || len(f.errs) != 0 {
		t.Fatalf("addCatalogLine failed: %v %v", f.err, f.errs)
	}
	if f.value(f.catalogIndex()) != "" {
		t.Errorf("catalog picker not cleared")
	}

	in, _ := f.input()
	if len(in.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(in.Items))
	}
	if in.Items[0].ItemID != item.ID || in.Items[0].UnitPrice != 80 {
		t.Errorf("catalog line = %+v", in.Items[0])
	}

	f.set(f.catalogIndex(), "nope")
	f.addCatalogLine(a.InvoiceService, []domain.Item{item})
	if _, ok := f.errs["catalog"]; !ok {
		t.Errorf("expected catalog violation for unknown item")
	}
}

func TestClientsScreen_SaveShowsViolations(t *testing.T) {
	a := newTestApp(t)
	m := NewClientsModel(a).(*ClientsModel)
	m.Update(m.loadClients()())

	m.initForm(nil)
	m.form.set(clientFieldEmail, "not-an-email")
	m.Update(m.saveClient()())

	if m.mode != clientModeNew {
		t.Fatalf("mode = %v, want form to stay open", m.mode)
	}
	if _, ok := m.form.errs["name"]; !ok {
		t.Errorf("expected name violation, got %v", m.form.errs)
	}
	if _, ok := m.form.errs["email"]; !ok {
		t.Errorf("expected email violation, got %v", m.form.errs)
	}

	m.form.set(clientFieldName, "Acme")
	m.form.set(clientFieldEmail, "billing@acme.test")
	_, cmd := m.Update(m.saveClient()())
	if m.mode != clientModeList {
		t.Fatalf("mode = %v, want list after save", m.mode)
	}
	if cmd == nil {
		t.Fatal("expected reload command after save")
	}
	m.Update(cmd())

	if len(m.clients) != 1 || m.clients[0].Name != "Acme" {
		t.Errorf("clients = %+v", m.clients)
	}
	if !strings.Contains(m.View(), "Acme") {
		t.Errorf("list view does not show the new client")
	}
}

func TestSetTheme(t *testing.T) {
	defer setTheme(domain.ThemeDark)

	setTheme(domain.ThemeLight)
	if currentTheme != domain.ThemeLight || primaryColor != palettes[domain.ThemeLight].primary {
		t.Errorf("light theme not applied")
	}

	setTheme("neon")
	if currentTheme != domain.ThemeDark || primaryColor != palettes[domain.ThemeDark].primary {
		t.Errorf("unknown theme should fall back to dark")
	}
}

func TestSessionCheck_Routing(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	m := New(a)
	next, _ := m.Update(m.checkSession()())
	if got := next.(Model).currentScreen; got != ScreenSignIn {
		t.Fatalf("no profile: screen = %v, want sign in", got)
	}

	if _, err := a.ProfileService.SignIn(ctx, "me@example.com", "Acme Studio"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	m = New(a)
	next, _ = m.Update(m.checkSession()())
	if got := next.(Model).currentScreen; got != ScreenClients {
		t.Fatalf("no clients: screen = %v, want clients", got)
	}
	if got := next.(Model).company; got != "Acme Studio" {
		t.Errorf("company = %q", got)
	}

	if _, err := a.ClientService.Create(ctx, domain.ClientInput{Name: "Globex", Email: "ap@globex.test"}); err != nil {
		t.Fatalf("Create client: %v", err)
	}
	m = New(a)
	next, _ = m.Update(m.checkSession()())
	if got := next.(Model).currentScreen; got != ScreenDashboard {
		t.Fatalf("screen = %v, want dashboard", got)
	}
}

func TestSignInScreen(t *testing.T) {
	a := newTestApp(t)
	m := NewSignInModel(a).(*SignInModel)

	m.form.set(signInFieldEmail, "bad")
	m.Update(m.signIn()())
	if _, ok := m.form.errs["email"]; !ok {
		t.Fatalf("expected email violation, got %v", m.form.errs)
	}

	m.form.set(signInFieldEmail, "me@example.com")
	_, cmd := m.Update(m.signIn()())
	if cmd == nil {
		t.Fatal("expected SignedInMsg command")
	}
	msg, ok := cmd().(SignedInMsg)
	if !ok {
		t.Fatalf("got %T, want SignedInMsg", cmd())
	}
	if msg.Profile.CompanyName != domain.DefaultCompanyName {
		t.Errorf("company = %q, want default", msg.Profile.CompanyName)
	}
}

func TestSettingsScreen_ToggleTheme(t *testing.T) {
	defer setTheme(domain.ThemeDark)
	a := newTestApp(t)
	m := NewSettingsModel(a).(*SettingsModel)
	m.Update(m.loadSettings()())

	_, cmd := m.Update(keyRunes("t"))
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	_, cmd = m.Update(cmd())
	if m.theme != domain.ThemeLight {
		t.Fatalf("theme = %q, want light", m.theme)
	}
	if msg, ok := cmd().(ThemeChangedMsg); !ok || msg.Theme != domain.ThemeLight {
		t.Errorf("expected ThemeChangedMsg{light}")
	}

	stored, err := a.ThemeService.Get(context.Background())
	if err != nil || stored != domain.ThemeLight {
		t.Errorf("stored theme = %q, %v", stored, err)
	}
}

func TestSettingsScreen_InvoiceDefaults(t *testing.T) {
	a := newTestApp(t)
	m := NewSettingsModel(a).(*SettingsModel)
	m.Update(m.loadSettings()())

	m.openInvoiceForm()
	m.form.set(settingsFieldTaxRate, "150")
	m.Update(m.saveSettings()())
	if m.form.err == nil {
		t.Fatal("expected error for tax rate over 100")
	}
	if a.Config.Invoice.DefaultTaxRate != 0 {
		t.Errorf("config changed on failed save")
	}

	for _, bad := range []string{"NaN", "Inf", "-Inf"} {
		m.form.err = nil
		m.form.set(settingsFieldTaxRate, bad)
		m.Update(m.saveSettings()())
		if m.form.err == nil {
			t.Errorf("expected error for tax rate %q", bad)
		}
	}
	if a.Config.Invoice.DefaultTaxRate != 0 {
		t.Errorf("config changed on failed save")
	}

	m.form.set(settingsFieldTaxRate, "8.25")
	m.form.set(settingsFieldDueDays, "14")
	m.Update(m.saveSettings()())
	if m.mode != settingsModeView {
		t.Fatalf("mode = %v, want view after save (err %v)", m.mode, m.form.err)
	}

	draft := a.InvoiceService.Draft(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if draft.TaxRate != 8.25 || draft.DueDate != "2024-03-15" {
		t.Errorf("draft after save = %+v", draft)
	}
}

func TestSettingsScreen_SignOut(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	if _, err := a.ProfileService.SignIn(ctx, "me@example.com", "Acme"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	m := NewSettingsModel(a).(*SettingsModel)
	m.Update(m.loadSettings()())

	m.Update(keyRunes("o"))
	if !m.IsCapturingInput() {
		t.Fatal("sign-out prompt should capture keys")
	}
	_, cmd := m.Update(keyRunes("y"))
	_, cmd = m.Update(cmd())
	if _, ok := cmd().(SignedOutMsg); !ok {
		t.Fatal("expected SignedOutMsg")
	}

	if _, ok, _ := a.ProfileService.Get(ctx); ok {
		t.Errorf("profile still present after sign out")
	}
}

func TestReportsScreen(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	client, err := a.ClientService.Create(ctx, domain.ClientInput{Name: "Acme", Email: "ap@acme.test"})
	if err != nil {
		t.Fatalf("Create client: %v", err)
	}
	mk := func(date string, price float64, status string) {
		t.Helper()
		inv, err := a.InvoiceService.Create(ctx, domain.InvoiceInput{
			ClientID: client.ID,
			Date:     date,
			Items:    []domain.InvoiceItem{domain.NewInvoiceItem("Work", 1, price)},
		})
		if err != nil {
			t.Fatalf("Create invoice: %v", err)
		}
		if _, err := a.InvoiceService.SetStatus(ctx, inv.ID, status); err != nil {
			t.Fatalf("SetStatus: %v", err)
		}
	}
	mk("2024-03-10", 500, "paid")
	mk("2024-03-20", 250, "paid")
	mk("2024-05-01", 300, "sent")

	m := NewReportsModel(a).(*ReportsModel)
	m.revenueYear = 2024
	m.Update(m.loadData()())

	if m.monthly[time.March] != 750 {
		t.Errorf("March revenue = %v, want 750", m.monthly[time.March])
	}
	if m.outstanding["Acme"] != 300 {
		t.Errorf("outstanding = %v, want 300", m.outstanding["Acme"])
	}

	view := m.View()
	for _, want := range []string{"Revenue by Month (2024)", "$750.00", "$300.00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// data for a year the screen has moved away from is dropped
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	stale := reportsDataMsg{year: 2024, monthly: map[time.Month]float64{time.March: 1}}
	m.Update(stale)
	if m.monthly[time.March] != 750 {
		t.Errorf("stale data replaced the current view")
	}
	m.Update(cmd())
	if m.revenueYear != 2025 || len(m.monthly) != 0 {
		t.Errorf("year = %d, monthly = %v", m.revenueYear, m.monthly)
	}
}
