package workspace

import (
	"bytes"
	"calendartasking_go/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// APIError carries the server-provided message and HTTP status. Network
// failures use the sentinel status 0.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "network error: " + e.Message
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Identity is the payload login returns; the client trusts it as-is.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// MonthlySummary mirrors the server's monthly aggregation payload
type MonthlySummary struct {
	CalendarID           uint            `json:"calendar_id"`
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	TotalPaidAmount      decimal.Decimal `json:"total_paid_amount"`
	TotalScheduledAmount decimal.Decimal `json:"total_scheduled_amount"`
	TotalSessions        int             `json:"total_sessions"`
	PaidSessions         int             `json:"paid_sessions"`
	UnpaidSessions       int             `json:"unpaid_sessions"`
}

// EventPayload is the full-replace body for event create/update
type EventPayload struct {
	CalendarID            uint      `json:"calendar_id"`
	CreatedByUserID       uint      `json:"created_by_user_id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	Location              string    `json:"location"`
	StartUtc              time.Time `json:"start_utc"`
	EndUtc                time.Time `json:"end_utc"`
	IsAllDay              bool      `json:"is_all_day"`
	RepeatType            string    `json:"repeat_type"`
	ReminderMinutesBefore *int      `json:"reminder_minutes_before"`
	Status                string    `json:"status"`
}

// TaskPayload is the full-replace body for task create/update
type TaskPayload struct {
	CalendarID            uint       `json:"calendar_id"`
	CreatedByUserID       uint       `json:"created_by_user_id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	DueUtc                *time.Time `json:"due_utc"`
	Priority              string     `json:"priority"`
	Status                string     `json:"status"`
	CompletedAtUtc        *time.Time `json:"completed_at_utc"`
	ReminderMinutesBefore *int       `json:"reminder_minutes_before"`
}

// SessionPayload is the full-replace body for session create/update
type SessionPayload struct {
	CalendarID       uint            `json:"calendar_id"`
	CreatedByUserID  uint            `json:"created_by_user_id"`
	StudentName      string          `json:"student_name"`
	StudentContact   string          `json:"student_contact"`
	SessionStartUtc  time.Time       `json:"session_start_utc"`
	SessionEndUtc    time.Time       `json:"session_end_utc"`
	TopicPlanned     string          `json:"topic_planned"`
	TopicDone        string          `json:"topic_done"`
	HomeworkAssigned string          `json:"homework_assigned"`
	PriceAmount      decimal.Decimal `json:"price_amount"`
	CurrencyCode     string          `json:"currency_code"`
	IsPaid           bool            `json:"is_paid"`
	PaidAtUtc        *time.Time      `json:"paid_at_utc"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentNote      string          `json:"payment_note"`
	Status           string          `json:"status"`
}

// CalendarPayload is the body for calendar create/update
type CalendarPayload struct {
	OwnerUserID uint   `json:"owner_user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ColorHex    string `json:"color_hex"`
	IsDefault   bool   `json:"is_default"`
}

// Client is a JSON API client for the CalendarTasking server
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g. "http://localhost:3000"
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

func (c *Client) do(method, path string, query url.Values, body interface{}, out interface{}) error {
	fullURL := c.baseURL + "/api" + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Status: 0, Message: err.Error()}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, fullURL, reader)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		message := resp.Status
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			message = failure.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Status: 0, Message: err.Error()}
		}
	}

	return nil
}

// Login exchanges credentials for the identity payload
func (c *Client) Login(email, password string) (*Identity, error) {
	var identity Identity
	err := c.do(http.MethodPost, "/users/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &identity)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// Register creates an account and returns the stored user
func (c *Client) Register(email, password, firstName, lastName, timeZoneID string) (*models.User, error) {
	var envelope struct {
		User models.User `json:"user"`
	}
	err := c.do(http.MethodPost, "/users/register", nil, map[string]string{
		"email":        email,
		"password":     password,
		"first_name":   firstName,
		"last_name":    lastName,
		"time_zone_id": timeZoneID,
	}, &envelope)
	if err != nil {
		return nil, err
	}
	return &envelope.User, nil
}

// Calendars lists the calendars of one owner
func (c *Client) Calendars(ownerUserID uint) ([]models.Calendar, error) {
	query := url.Values{}
	query.Set("owner_user_id", strconv.FormatUint(uint64(ownerUserID), 10))

	var envelope struct {
		Calendars []models.Calendar `json:"calendars"`
	}
	if err := c.do(http.MethodGet, "/calendars", query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Calendars, nil
}

// CreateCalendar creates a calendar
func (c *Client) CreateCalendar(payload CalendarPayload) (*models.Calendar, error) {
	var envelope struct {
		Calendar models.Calendar `json:"calendar"`
	}
	if err := c.do(http.MethodPost, "/calendars", nil, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Calendar, nil
}

// Events lists events for a calendar, optionally constrained to a range
func (c *Client) Events(calendarID uint, fromUtc, toUtc *time.Time) ([]models.Event, error) {
	query := url.Values{}
	query.Set("calendar_id", strconv.FormatUint(uint64(calendarID), 10))
	if fromUtc != nil {
		query.Set("from_utc", fromUtc.Format(time.RFC3339))
	}
	if toUtc != nil {
		query.Set("to_utc", toUtc.Format(time.RFC3339))
	}

	var envelope struct {
		Events []models.Event `json:"events"`
	}
	if err := c.do(http.MethodGet, "/events", query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Events, nil
}

// CreateEvent creates an event
func (c *Client) CreateEvent(payload EventPayload) (*models.Event, error) {
	var envelope struct {
		Event models.Event `json:"event"`
	}
	if err := c.do(http.MethodPost, "/events", nil, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Event, nil
}

// UpdateEvent full-replaces an event
func (c *Client) UpdateEvent(id uint, payload EventPayload) (*models.Event, error) {
	var envelope struct {
		Event models.Event `json:"event"`
	}
	path := "/events/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(http.MethodPut, path, nil, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Event, nil
}

// Tasks lists tasks for a calendar
func (c *Client) Tasks(calendarID uint) ([]models.TaskItem, error) {
	query := url.Values{}
	query.Set("calendar_id", strconv.FormatUint(uint64(calendarID), 10))

	var envelope struct {
		Tasks []models.TaskItem `json:"tasks"`
	}
	if err := c.do(http.MethodGet, "/tasks", query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Tasks, nil
}

// CreateTask creates a task
func (c *Client) CreateTask(payload TaskPayload) (*models.TaskItem, error) {
	var envelope struct {
		Task models.TaskItem `json:"task"`
	}
	if err := c.do(http.MethodPost, "/tasks", nil, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Task, nil
}

// UpdateTask full-replaces a task
func (c *Client) UpdateTask(id uint, payload TaskPayload) (*models.TaskItem, error) {
	var envelope struct {
		Task models.TaskItem `json:"task"`
	}
	path := "/tasks/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(http.MethodPut, path, nil, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Task, nil
}

// Sessions lists private class sessions for a calendar
func (c *Client) Sessions(calendarID uint) ([]models.PrivateClassSession, error) {
	query := url.Values{}
	query.Set("calendar_id", strconv.FormatUint(uint64(calendarID), 10))

	var envelope struct {
		Sessions []models.PrivateClassSession `json:"sessions"`
	}
	if err := c.do(http.MethodGet, "/private-class-sessions", query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Sessions, nil
}

// CreateSession creates a private class session
func (c *Client) CreateSession(payload SessionPayload) (*models.PrivateClassSession, error) {
	var envelope struct {
		Session models.PrivateClassSession `json:"session"`
	}
	if err := c.do(http.MethodPost, "/private-class-sessions", nil, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Session, nil
}

// UpdateSession full-replaces a session
func (c *Client) UpdateSession(id uint, payload SessionPayload) (*models.PrivateClassSession, error) {
	var envelope struct {
		Session models.PrivateClassSession `json:"session"`
	}
	path := "/private-class-sessions/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(http.MethodPut, path, nil, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Session, nil
}

// GetMonthlySummary fetches the payment aggregates for one month
func (c *Client) GetMonthlySummary(calendarID uint, year, month int) (*MonthlySummary, error) {
	query := url.Values{}
	query.Set("calendar_id", strconv.FormatUint(uint64(calendarID), 10))
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(month))

	var summary MonthlySummary
	if err := c.do(http.MethodGet, "/private-class-sessions/monthly-summary", query, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
