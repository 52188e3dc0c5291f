package controllers

import (
	"calendartasking_go/database"
	"calendartasking_go/middleware"
	"calendartasking_go/models"
	"calendartasking_go/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SessionController struct{}

// SessionRequest is shared by create and full-replace update
type SessionRequest struct {
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

// MarkPaidRequest carries the optional payment details for mark-paid
type MarkPaidRequest struct {
	PaidAtUtc     *time.Time `json:"paid_at_utc"`
	PaymentMethod string     `json:"payment_method"`
	PaymentNote   string     `json:"payment_note"`
}

// GetSessions returns sessions filtered by calendar, payment state and range
func (sc *SessionController) GetSessions(c *fiber.Ctx) error {
	query := database.DB.Model(&models.PrivateClassSession{})

	if calendarID := c.Query("calendar_id"); calendarID != "" {
		query = query.Where("calendar_id = ?", calendarID)
	}

	if isPaid := c.Query("is_paid"); isPaid != "" {
		paid, err := strconv.ParseBool(isPaid)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "is_paid must be true or false",
			})
		}
		query = query.Where("is_paid = ?", paid)
	}

	// Overlap semantics: from <= end AND to >= start
	if fromUtc := c.Query("from_utc"); fromUtc != "" {
		from, err := time.Parse(time.RFC3339, fromUtc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "from_utc must be an ISO-8601 timestamp",
			})
		}
		query = query.Where("session_end_utc >= ?", from)
	}

	if toUtc := c.Query("to_utc"); toUtc != "" {
		to, err := time.Parse(time.RFC3339, toUtc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "to_utc must be an ISO-8601 timestamp",
			})
		}
		query = query.Where("session_start_utc <= ?", to)
	}

	var sessions []models.PrivateClassSession
	if err := query.Order("session_start_utc").Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// GetSession returns a specific session by ID
func (sc *SessionController) GetSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.PrivateClassSession
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(fiber.Map{
		"session": session,
	})
}

// GetUnpaidSessions returns the unpaid view, optionally per calendar
func (sc *SessionController) GetUnpaidSessions(c *fiber.Ctx) error {
	query := database.DB.Where("is_paid = ?", false)

	if calendarID := c.Query("calendar_id"); calendarID != "" {
		query = query.Where("calendar_id = ?", calendarID)
	}

	var sessions []models.PrivateClassSession
	if err := query.Order("session_start_utc").Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch unpaid sessions",
		})
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// MonthlySummary aggregates the sessions whose start falls inside the month
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

// GetMonthlySummary returns payment aggregates for one calendar month
func (sc *SessionController) GetMonthlySummary(c *fiber.Ctx) error {
	calendarID, err := strconv.ParseUint(c.Query("calendar_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "calendar_id is required",
		})
	}

	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	summary, validationError := buildMonthlySummary(uint(calendarID), year, month)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	return c.JSON(summary)
}

// CreateSession creates a new private class session
func (sc *SessionController) CreateSession(c *fiber.Ctx) error {
	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	validationError, status, paymentMethod := validateSessionRequest(&req)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	session := models.PrivateClassSession{
		CalendarID:       req.CalendarID,
		CreatedByUserID:  req.CreatedByUserID,
		StudentName:      strings.TrimSpace(req.StudentName),
		StudentContact:   utils.OptionalString(req.StudentContact),
		SessionStartUtc:  req.SessionStartUtc,
		SessionEndUtc:    req.SessionEndUtc,
		TopicPlanned:     utils.OptionalString(req.TopicPlanned),
		TopicDone:        utils.OptionalString(req.TopicDone),
		HomeworkAssigned: utils.OptionalString(req.HomeworkAssigned),
		PriceAmount:      req.PriceAmount,
		CurrencyCode:     strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		IsPaid:           req.IsPaid,
		PaidAtUtc:        resolvePaidAtUtc(req.IsPaid, req.PaidAtUtc),
		PaymentMethod:    utils.OptionalString(paymentMethod),
		PaymentNote:      utils.OptionalString(req.PaymentNote),
		Status:           status,
	}

	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	middleware.LogActivity(c, "CREATE", "private-class-sessions", session.ID, fiber.Map{
		"student_name": session.StudentName,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session created successfully",
		"session": session,
	})
}

// UpdateSession replaces the mutable fields of an existing session
func (sc *SessionController) UpdateSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.PrivateClassSession
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	validationError, status, paymentMethod := validateSessionRequest(&req)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	session.CalendarID = req.CalendarID
	session.CreatedByUserID = req.CreatedByUserID
	session.StudentName = strings.TrimSpace(req.StudentName)
	session.StudentContact = utils.OptionalString(req.StudentContact)
	session.SessionStartUtc = req.SessionStartUtc
	session.SessionEndUtc = req.SessionEndUtc
	session.TopicPlanned = utils.OptionalString(req.TopicPlanned)
	session.TopicDone = utils.OptionalString(req.TopicDone)
	session.HomeworkAssigned = utils.OptionalString(req.HomeworkAssigned)
	session.PriceAmount = req.PriceAmount
	session.CurrencyCode = strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	session.IsPaid = req.IsPaid
	session.PaidAtUtc = resolvePaidAtUtc(req.IsPaid, req.PaidAtUtc)
	session.PaymentMethod = utils.OptionalString(paymentMethod)
	session.PaymentNote = utils.OptionalString(req.PaymentNote)
	session.Status = status

	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update session",
		})
	}

	middleware.LogActivity(c, "UPDATE", "private-class-sessions", session.ID, fiber.Map{
		"student_name": session.StudentName,
	})

	return c.JSON(fiber.Map{
		"message": "Session updated successfully",
		"session": session,
	})
}

// MarkPaid flags a session as paid, stamping paid_at_utc when absent
func (sc *SessionController) MarkPaid(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.PrivateClassSession
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	var req MarkPaidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	paymentMethod, ok := utils.NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "PaymentMethod must be one of: Cash, Card, Transfer, or null",
		})
	}

	session.IsPaid = true
	session.PaidAtUtc = resolvePaidAtUtc(true, req.PaidAtUtc)
	session.PaymentMethod = utils.OptionalString(paymentMethod)
	session.PaymentNote = utils.OptionalString(req.PaymentNote)

	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark session paid",
		})
	}

	middleware.LogActivity(c, "UPDATE", "private-class-sessions", session.ID, fiber.Map{
		"action":         "mark_paid",
		"payment_method": paymentMethod,
	})

	return c.JSON(fiber.Map{
		"message": "Session marked paid",
		"session": session,
	})
}

// MarkUnpaid clears every payment field together
func (sc *SessionController) MarkUnpaid(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.PrivateClassSession
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	session.IsPaid = false
	session.PaidAtUtc = nil
	session.PaymentMethod = nil
	session.PaymentNote = nil

	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark session unpaid",
		})
	}

	middleware.LogActivity(c, "UPDATE", "private-class-sessions", session.ID, fiber.Map{
		"action": "mark_unpaid",
	})

	return c.JSON(fiber.Map{
		"message": "Session marked unpaid",
		"session": session,
	})
}

// DeleteSession removes a session
func (sc *SessionController) DeleteSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.PrivateClassSession
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	if err := database.DB.Delete(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete session",
		})
	}

	middleware.LogActivity(c, "DELETE", "private-class-sessions", session.ID, fiber.Map{
		"student_name": session.StudentName,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func validateSessionRequest(req *SessionRequest) (string, string, string) {
	if strings.TrimSpace(req.StudentName) == "" {
		return "StudentName is required", "", ""
	}

	if !req.SessionEndUtc.After(req.SessionStartUtc) {
		return "SessionEndUtc must be greater than SessionStartUtc", "", ""
	}

	if req.PriceAmount.IsNegative() {
		return "PriceAmount must be >= 0", "", ""
	}

	if len(strings.TrimSpace(req.CurrencyCode)) != 3 {
		return "CurrencyCode must be exactly 3 characters", "", ""
	}

	status, ok := utils.NormalizeValue(req.Status, utils.SessionStatuses)
	if !ok {
		return "Status must be one of: Scheduled, Completed, Cancelled, NoShow", "", ""
	}

	paymentMethod, ok := utils.NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		return "PaymentMethod must be one of: Cash, Card, Transfer, or null", "", ""
	}

	var calendar models.Calendar
	if err := database.DB.First(&calendar, req.CalendarID).Error; err != nil {
		return "Calendar does not exist", "", ""
	}

	var createdBy models.User
	if err := database.DB.First(&createdBy, req.CreatedByUserID).Error; err != nil {
		return "CreatedByUser does not exist", "", ""
	}

	return "", status, paymentMethod
}

// resolvePaidAtUtc keeps paid_at_utc coupled to is_paid: paid without an
// explicit stamp gets now, unpaid is forced null.
func resolvePaidAtUtc(isPaid bool, requested *time.Time) *time.Time {
	if !isPaid {
		return nil
	}
	if requested != nil {
		return requested
	}
	now := time.Now().UTC()
	return &now
}

func buildMonthlySummary(calendarID uint, year, month int) (*MonthlySummary, string) {
	if year < 2000 || year > 2100 {
		return nil, "year must be between 2000 and 2100"
	}

	if month < 1 || month > 12 {
		return nil, "month must be between 1 and 12"
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEndExclusive := monthStart.AddDate(0, 1, 0)

	var sessions []models.PrivateClassSession
	if err := database.DB.
		Where("calendar_id = ? AND session_start_utc >= ? AND session_start_utc < ?",
			calendarID, monthStart, monthEndExclusive).
		Find(&sessions).Error; err != nil {
		return nil, "Failed to fetch sessions"
	}

	summary := &MonthlySummary{
		CalendarID:           calendarID,
		Year:                 year,
		Month:                month,
		TotalPaidAmount:      decimal.Zero,
		TotalScheduledAmount: decimal.Zero,
		TotalSessions:        len(sessions),
	}

	for _, session := range sessions {
		summary.TotalScheduledAmount = summary.TotalScheduledAmount.Add(session.PriceAmount)
		if session.IsPaid {
			summary.PaidSessions++
			summary.TotalPaidAmount = summary.TotalPaidAmount.Add(session.PriceAmount)
		}
	}
	summary.UnpaidSessions = summary.TotalSessions - summary.PaidSessions

	return summary, ""
}
