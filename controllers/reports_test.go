package controllers_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestMonthlyReportProducesWorkbook(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	start := time.Date(2026, 9, 10, 17, 0, 0, 0, time.UTC)
	resp := doJSON(t, app, http.MethodPost, "/api/private-class-sessions",
		sessionBody(calendarID, ownerID, "Nok", start, "1500.00"))
	wantStatus(t, resp, http.StatusCreated)

	resp = doJSON(t, app, http.MethodGet,
		requestPath("/api/private-class-sessions/monthly-report?calendar_id=%d&year=2026&month=9", calendarID), nil)
	wantStatus(t, resp, http.StatusOK)

	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "sessions-2026-09.xlsx") {
		t.Errorf("Content-Disposition = %q, want the month-named attachment", disposition)
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read report body: %v", err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("Sessions")
	if err != nil {
		t.Fatalf("read Sessions sheet: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("workbook has %d rows, want header plus at least one session", len(rows))
	}

	found := false
	for _, row := range rows[1:] {
		for _, cell := range row {
			if cell == "Nok" {
				found = true
			}
		}
	}
	if !found {
		t.Error("session row for Nok missing from the report")
	}
}

func TestMonthlyReportValidatesBounds(t *testing.T) {
	app := setupApp(t)
	ownerID := registerUser(t, app, "tutor@example.com")
	calendarID := createCalendar(t, app, ownerID, "Tutoring", false)

	resp := doJSON(t, app, http.MethodGet,
		requestPath("/api/private-class-sessions/monthly-report?calendar_id=%d&year=2026&month=13", calendarID), nil)
	wantStatus(t, resp, http.StatusBadRequest)
}
