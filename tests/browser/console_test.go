package browser_test

import (
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"gymadmin/internal/domain/member"
)

// TestLoginAndDashboard covers the sign-in flow: valid credentials land on
// the dashboard with the summary figures visible.
func TestLoginAndDashboard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if err := page.Locator("text=Total Members").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("dashboard figures did not render: %v", err)
	}
}

// TestLoginRejected covers the failure path: the login page re-renders with
// the backend's message and no session is established.
func TestLoginRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	page.Locator("input[name=username]").Fill("admin")
	page.Locator("input[name=password]").Fill("wrong")
	page.Locator("button[type=submit]").Click()

	if err := page.Locator("text=Bad credentials").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("rejection message did not render: %v", err)
	}
	if !strings.Contains(page.URL(), "/login") {
		t.Errorf("still expected to be on /login, got %s", page.URL())
	}
}

// TestMemberCreateFlow covers the core registration flow: open the panel,
// fill the form, save, and see the member in the list with a success
// notification.
func TestMemberCreateFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/members"); err != nil {
		t.Fatalf("failed to navigate to members: %v", err)
	}
	if err := page.Locator("a:has-text('New member')").Click(); err != nil {
		t.Fatalf("failed to open the panel: %v", err)
	}

	page.Locator("#firstName").Fill("Juan")
	page.Locator("#lastName").Fill("Pérez")
	page.Locator("#email").Fill("juan@example.com")
	page.Locator("#phone").Fill("+5215512345678")
	page.Locator("#dateOfBirth").Fill("1990-05-20")
	page.Locator("#address").Fill("Av. Reforma 123")
	page.Locator("#emergencyContact").Fill("María Pérez")
	page.Locator("#emergencyPhone").Fill("+5215598765432")
	page.Locator("#membershipType").SelectOption(playwright.SelectOptionValues{Values: &[]string{"PREMIUM"}})
	page.Locator("#startDate").Fill("2024-01-01")
	page.Locator("#endDate").Fill("2024-12-31")

	if err := page.Locator("button:has-text('Create member')").Click(); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}

	if err := page.Locator("text=Member created successfully").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("success notification did not appear: %v", err)
	}
	if err := page.Locator("td:has-text('Juan Pérez')").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("new member did not appear in the list: %v", err)
	}
}

// TestMemberValidationKeepsPanelOpen covers the validation path: submitting
// an incomplete form keeps the panel open with per-field messages.
func TestMemberValidationKeepsPanelOpen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/members?modal=new"); err != nil {
		t.Fatalf("failed to open the panel: %v", err)
	}

	page.Locator("#firstName").Fill("Juan")
	page.Locator("#email").Fill("not-an-email")

	if err := page.Locator("button:has-text('Create member')").Click(); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}

	if err := page.Locator("text=Email must be a valid address").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("field error did not render: %v", err)
	}

	// The entered first name must survive the re-render.
	value, err := page.Locator("#firstName").InputValue()
	if err != nil || value != "Juan" {
		t.Errorf("first name = %q (err %v), want the entered value", value, err)
	}
}

// TestMemberDeleteDeclined covers the confirmation guard: dismissing the
// delete prompt issues no request and the row stays in the list.
func TestMemberDeleteDeclined(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	app.Backend.seedMember(member.Member{
		FirstName: "Sofía", LastName: "García",
		Email: "sofia@example.com", Phone: "+5215511122233",
		MembershipType: "PREMIUM",
		StartDate:      "2024-01-01", EndDate: "2024-12-31",
		IsActive: true,
	})

	page := app.newPage(t)
	app.login(t, page)

	dialogs := make(chan string, 1)
	page.OnDialog(func(d playwright.Dialog) {
		dialogs <- d.Message()
		d.Dismiss()
	})

	if _, err := page.Goto(app.BaseURL + "/members"); err != nil {
		t.Fatalf("failed to navigate to members: %v", err)
	}
	if err := page.Locator("tr:has-text('Sofía García') button:has-text('Delete')").Click(); err != nil {
		t.Fatalf("failed to click delete: %v", err)
	}

	select {
	case msg := <-dialogs:
		if !strings.Contains(msg, "Sofía García") {
			t.Errorf("confirmation prompt = %q, want it to name the member", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("confirmation prompt never appeared")
	}

	// The row must survive and the backend must see no delete request.
	if err := page.Locator("td:has-text('Sofía García')").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("row disappeared after a declined confirmation: %v", err)
	}
	if got := app.Backend.memberDeleteCalls(); got != 0 {
		t.Errorf("backend received %d delete requests, want 0", got)
	}
}

// TestLogout covers session teardown: after signing out, a protected page
// bounces back to login.
func TestLogout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if err := page.Locator("nav button:has-text('Sign out')").Click(); err != nil {
		t.Fatalf("failed to click sign out: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/login", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("logout did not land on login: %v", err)
	}

	if _, err := page.Goto(app.BaseURL + "/members"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	if !strings.Contains(page.URL(), "/login") {
		t.Errorf("protected page served after logout: %s", page.URL())
	}
}
