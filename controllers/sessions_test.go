package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"calendartasking_go/models"

	"github.com/shopspring/decimal"
)

func sessionBody(calendarID, userID uint, student string, start time.Time, price string) map[string]interface{} {
	return map[string]interface{}{
		"calendar_id":        calendarID,
		"created_by_user_id": userID,
		"student_name":       student,
		"session_start_utc":  start,
		"session_end_utc":    start.Add(time.Hour),
		"price_amount":       price,
		"currency_code":      "THB",
		"status":             "Scheduled",
	}
}

func TestCreateSessionNormalizes(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	start := time.Date(2026, 9, 3, 17, 0, 0, 0, time.UTC)
	body := sessionBody(calendarID, ownerID, "Nok", start, "1500.00")
	body["currency_code"] = " thb "
	body["status"] = "scheduled"

	resp := doJSON(t, app, http.MethodPost, "/api/private-class-sessions", body)
	wantStatus(t, resp, http.StatusCreated)

	var created struct {
		Session models.PrivateClassSession `json:"session"`
	}
	decodeBody(t, resp, &created)

	if created.Session.CurrencyCode != "THB" {
		t.Errorf("currency_code = %q, want THB", created.Session.CurrencyCode)
	}
	if created.Session.Status != "Scheduled" {
		t.Errorf("status = %q, want Scheduled", created.Session.Status)
	}
	if !created.Session.PriceAmount.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("price_amount = %s, want 1500.00", created.Session.PriceAmount)
	}
	if created.Session.IsPaid || created.Session.PaidAtUtc != nil {
		t.Error("new unpaid session carries payment fields")
	}
}

func TestCreateSessionValidation(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)
	start := time.Date(2026, 9, 3, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"empty student name", func(b map[string]interface{}) { b["student_name"] = "  " }},
		{"end equals start", func(b map[string]interface{}) { b["session_end_utc"] = start }},
		{"negative price", func(b map[string]interface{}) { b["price_amount"] = "-1" }},
		{"currency too short", func(b map[string]interface{}) { b["currency_code"] = "TH" }},
		{"currency too long", func(b map[string]interface{}) { b["currency_code"] = "BAHT" }},
		{"unknown status", func(b map[string]interface{}) { b["status"] = "Pending" }},
		{"unknown payment method", func(b map[string]interface{}) { b["payment_method"] = "Cheque" }},
		{"missing calendar", func(b map[string]interface{}) { b["calendar_id"] = 9999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := sessionBody(calendarID, ownerID, "Nok", start, "500.00")
			tt.mutate(body)

			resp := doJSON(t, app, http.MethodPost, "/api/private-class-sessions", body)
			wantStatus(t, resp, http.StatusBadRequest)
		})
	}
}

func TestMarkPaidAndUnpaid(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	start := time.Date(2026, 9, 3, 17, 0, 0, 0, time.UTC)
	resp := doJSON(t, app, http.MethodPost, "/api/private-class-sessions",
		sessionBody(calendarID, ownerID, "Nok", start, "1500.00"))
	wantStatus(t, resp, http.StatusCreated)

	var created struct {
		Session models.PrivateClassSession `json:"session"`
	}
	decodeBody(t, resp, &created)
	sessionID := created.Session.ID

	// Mark paid with a lowercase method and no explicit stamp
	before := time.Now().UTC()
	resp = doJSON(t, app, http.MethodPut, requestPath("/api/private-class-sessions/%d/mark-paid", sessionID),
		map[string]string{
			"payment_method": "card",
			"payment_note":   "promptpay ref 991",
		})
	wantStatus(t, resp, http.StatusOK)
	after := time.Now().UTC()

	var paid struct {
		Session models.PrivateClassSession `json:"session"`
	}
	decodeBody(t, resp, &paid)

	if !paid.Session.IsPaid {
		t.Fatal("session not marked paid")
	}
	if paid.Session.PaymentMethod == nil || *paid.Session.PaymentMethod != "Card" {
		t.Errorf("payment_method = %v, want Card", paid.Session.PaymentMethod)
	}
	if paid.Session.PaidAtUtc == nil {
		t.Fatal("paid_at_utc is nil on a paid session")
	}
	if paid.Session.PaidAtUtc.Before(before.Add(-time.Second)) || paid.Session.PaidAtUtc.After(after.Add(time.Second)) {
		t.Errorf("paid_at_utc = %v, want between %v and %v", paid.Session.PaidAtUtc, before, after)
	}

	// Unknown method is rejected without touching the session
	resp = doJSON(t, app, http.MethodPut, requestPath("/api/private-class-sessions/%d/mark-paid", sessionID),
		map[string]string{"payment_method": "Cheque"})
	wantStatus(t, resp, http.StatusBadRequest)

	// Mark unpaid clears every payment field together
	resp = doJSON(t, app, http.MethodPut, requestPath("/api/private-class-sessions/%d/mark-unpaid", sessionID), nil)
	wantStatus(t, resp, http.StatusOK)

	var unpaid struct {
		Session models.PrivateClassSession `json:"session"`
	}
	decodeBody(t, resp, &unpaid)

	if unpaid.Session.IsPaid {
		t.Error("is_paid still true after mark-unpaid")
	}
	if unpaid.Session.PaidAtUtc != nil || unpaid.Session.PaymentMethod != nil || unpaid.Session.PaymentNote != nil {
		t.Errorf("payment fields not cleared: paid_at=%v method=%v note=%v",
			unpaid.Session.PaidAtUtc, unpaid.Session.PaymentMethod, unpaid.Session.PaymentNote)
	}
}

func TestMarkPaidKeepsExplicitStamp(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	start := time.Date(2026, 9, 3, 17, 0, 0, 0, time.UTC)
	resp := doJSON(t, app, http.MethodPost, "/api/private-class-sessions",
		sessionBody(calendarID, ownerID, "Nok", start, "800.00"))
	wantStatus(t, resp, http.StatusCreated)

	var created struct {
		Session models.PrivateClassSession `json:"session"`
	}
	decodeBody(t, resp, &created)

	stamp := time.Date(2026, 9, 4, 8, 30, 0, 0, time.UTC)
	resp = doJSON(t, app, http.MethodPut,
		requestPath("/api/private-class-sessions/%d/mark-paid", created.Session.ID),
		map[string]interface{}{"paid_at_utc": stamp})
	wantStatus(t, resp, http.StatusOK)

	var paid struct {
		Session models.PrivateClassSession `json:"session"`
	}
	decodeBody(t, resp, &paid)

	if paid.Session.PaidAtUtc == nil || !paid.Session.PaidAtUtc.Equal(stamp) {
		t.Errorf("paid_at_utc = %v, want %v", paid.Session.PaidAtUtc, stamp)
	}
	if paid.Session.PaymentMethod != nil {
		t.Errorf("payment_method = %v, want nil when omitted", paid.Session.PaymentMethod)
	}
}

func TestUnpaidViewAndFilters(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	start := time.Date(2026, 9, 3, 17, 0, 0, 0, time.UTC)
	for i, student := range []string{"Nok", "Beam", "Fah"} {
		resp := doJSON(t, app, http.MethodPost, "/api/private-class-sessions",
			sessionBody(calendarID, ownerID, student, start.Add(time.Duration(i)*24*time.Hour), "500.00"))
		wantStatus(t, resp, http.StatusCreated)
	}

	resp := doJSON(t, app, http.MethodPut, "/api/private-class-sessions/2/mark-paid", map[string]string{})
	wantStatus(t, resp, http.StatusOK)

	var list struct {
		Sessions []models.PrivateClassSession `json:"sessions"`
		Total    int                          `json:"total"`
	}

	resp = doJSON(t, app, http.MethodGet, requestPath("/api/private-class-sessions/unpaid?calendar_id=%d", calendarID), nil)
	wantStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &list)
	if list.Total != 2 {
		t.Errorf("unpaid view total = %d, want 2", list.Total)
	}

	resp = doJSON(t, app, http.MethodGet, requestPath("/api/private-class-sessions?calendar_id=%d&is_paid=true", calendarID), nil)
	wantStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &list)
	if list.Total != 1 || list.Sessions[0].StudentName != "Beam" {
		t.Errorf("is_paid=true returned %d sessions, want only Beam", list.Total)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/private-class-sessions?is_paid=maybe", nil)
	wantStatus(t, resp, http.StatusBadRequest)
}

func TestMonthlySummary(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	inMonth := time.Date(2026, 9, 10, 17, 0, 0, 0, time.UTC)
	nextMonth := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	create := func(student string, start time.Time, price string, paid bool) {
		body := sessionBody(calendarID, ownerID, student, start, price)
		body["is_paid"] = paid
		resp := doJSON(t, app, http.MethodPost, "/api/private-class-sessions", body)
		wantStatus(t, resp, http.StatusCreated)
	}

	create("Nok", inMonth, "1500.00", true)
	create("Beam", inMonth.Add(24*time.Hour), "800.50", false)
	create("Fah", nextMonth, "999.99", true)

	resp := doJSON(t, app, http.MethodGet,
		requestPath("/api/private-class-sessions/monthly-summary?calendar_id=%d&year=2026&month=9", calendarID), nil)
	wantStatus(t, resp, http.StatusOK)

	var summary struct {
		TotalPaidAmount      decimal.Decimal `json:"total_paid_amount"`
		TotalScheduledAmount decimal.Decimal `json:"total_scheduled_amount"`
		TotalSessions        int             `json:"total_sessions"`
		PaidSessions         int             `json:"paid_sessions"`
		UnpaidSessions       int             `json:"unpaid_sessions"`
	}
	decodeBody(t, resp, &summary)

	if summary.TotalSessions != 2 || summary.PaidSessions != 1 || summary.UnpaidSessions != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1",
			summary.TotalSessions, summary.PaidSessions, summary.UnpaidSessions)
	}
	if !summary.TotalPaidAmount.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("total_paid_amount = %s, want 1500.00", summary.TotalPaidAmount)
	}
	if !summary.TotalScheduledAmount.Equal(decimal.RequireFromString("2300.50")) {
		t.Errorf("total_scheduled_amount = %s, want 2300.50", summary.TotalScheduledAmount)
	}
}

func TestMonthlySummaryBounds(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	paths := []string{
		requestPath("/api/private-class-sessions/monthly-summary?calendar_id=%d&year=1999&month=9", calendarID),
		requestPath("/api/private-class-sessions/monthly-summary?calendar_id=%d&year=2101&month=9", calendarID),
		requestPath("/api/private-class-sessions/monthly-summary?calendar_id=%d&year=2026&month=0", calendarID),
		requestPath("/api/private-class-sessions/monthly-summary?calendar_id=%d&year=2026&month=13", calendarID),
		"/api/private-class-sessions/monthly-summary?year=2026&month=9",
	}

	for _, path := range paths {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		wantStatus(t, resp, http.StatusBadRequest)
	}
}
