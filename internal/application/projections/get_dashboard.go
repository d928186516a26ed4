package projections

import "context"

// Stat is one dashboard summary figure.
type Stat struct {
	Name       string
	Value      string
	Change     string
	ChangeType string // "positive" or "negative"
}

// Activity is one recent-activity line.
type Activity struct {
	Title  string
	Detail string
	Ago    string
}

// RequestStats exposes the console's own request-timing figures.
type RequestStats interface {
	Snapshot() (count int, avgMillis, maxMillis float64)
}

// GetDashboardDeps holds dependencies for the dashboard projection.
// Collector is optional; nil skips the admin timing panel.
type GetDashboardDeps struct {
	Collector RequestStats
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Stats      []Stat
	Activities []Activity

	// Admin-only console figures
	RequestCount int
	AvgMillis    float64
	MaxMillis    float64
	ShowRequests bool
}

// QueryGetDashboard returns the summary view. The business figures are static
// placeholders in the current scope — the backend exposes no statistics
// endpoint yet — while the request figures are live console measurements.
func QueryGetDashboard(_ context.Context, deps GetDashboardDeps, isAdmin bool) DashboardResult {
	result := DashboardResult{
		Stats: []Stat{
			{Name: "Total Members", Value: "1,234", Change: "+12%", ChangeType: "positive"},
			{Name: "Active Members", Value: "1,089", Change: "+8%", ChangeType: "positive"},
			{Name: "Payments This Month", Value: "$45,678", Change: "+15%", ChangeType: "positive"},
			{Name: "Average Attendance", Value: "78%", Change: "+5%", ChangeType: "positive"},
		},
		Activities: []Activity{
			{Title: "New member registered", Detail: "Juan Pérez signed up for a Premium membership", Ago: "2 min"},
			{Title: "Payment received", Detail: "María García paid her monthly fee", Ago: "15 min"},
			{Title: "Membership renewed", Detail: "Carlos López renewed his VIP membership", Ago: "1 h"},
		},
	}

	if isAdmin && deps.Collector != nil {
		count, avg, max := deps.Collector.Snapshot()
		result.RequestCount = count
		result.AvgMillis = avg
		result.MaxMillis = max
		result.ShowRequests = true
	}
	return result
}
