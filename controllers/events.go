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
)

type EventController struct{}

// EventRequest is shared by create and full-replace update
type EventRequest struct {
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

// GetEvents returns events filtered by calendar and overlap range
func (ec *EventController) GetEvents(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Event{})

	if calendarID := c.Query("calendar_id"); calendarID != "" {
		query = query.Where("calendar_id = ?", calendarID)
	}

	// Overlap semantics: from <= end AND to >= start
	if fromUtc := c.Query("from_utc"); fromUtc != "" {
		from, err := time.Parse(time.RFC3339, fromUtc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "from_utc must be an ISO-8601 timestamp",
			})
		}
		query = query.Where("end_utc >= ?", from)
	}

	if toUtc := c.Query("to_utc"); toUtc != "" {
		to, err := time.Parse(time.RFC3339, toUtc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "to_utc must be an ISO-8601 timestamp",
			})
		}
		query = query.Where("start_utc <= ?", to)
	}

	var events []models.Event
	if err := query.Order("start_utc").Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch events",
		})
	}

	return c.JSON(fiber.Map{
		"events": events,
		"total":  len(events),
	})
}

// GetEvent returns a specific event by ID
func (ec *EventController) GetEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	var event models.Event
	if err := database.DB.First(&event, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Event not found",
		})
	}

	return c.JSON(fiber.Map{
		"event": event,
	})
}

// CreateEvent creates a new event
func (ec *EventController) CreateEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	validationError, repeatType, status := validateEventRequest(&req)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	event := models.Event{
		CalendarID:            req.CalendarID,
		CreatedByUserID:       req.CreatedByUserID,
		Title:                 strings.TrimSpace(req.Title),
		Description:           utils.OptionalString(req.Description),
		Location:              utils.OptionalString(req.Location),
		StartUtc:              req.StartUtc,
		EndUtc:                req.EndUtc,
		IsAllDay:              req.IsAllDay,
		RepeatType:            repeatType,
		ReminderMinutesBefore: req.ReminderMinutesBefore,
		Status:                status,
	}

	if err := database.DB.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create event",
		})
	}

	middleware.LogActivity(c, "CREATE", "events", event.ID, fiber.Map{
		"title": event.Title,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event created successfully",
		"event":   event,
	})
}

// UpdateEvent replaces the mutable fields of an existing event
func (ec *EventController) UpdateEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	var event models.Event
	if err := database.DB.First(&event, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Event not found",
		})
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	validationError, repeatType, status := validateEventRequest(&req)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	event.CalendarID = req.CalendarID
	event.CreatedByUserID = req.CreatedByUserID
	event.Title = strings.TrimSpace(req.Title)
	event.Description = utils.OptionalString(req.Description)
	event.Location = utils.OptionalString(req.Location)
	event.StartUtc = req.StartUtc
	event.EndUtc = req.EndUtc
	event.IsAllDay = req.IsAllDay
	event.RepeatType = repeatType
	event.ReminderMinutesBefore = req.ReminderMinutesBefore
	event.Status = status

	if err := database.DB.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update event",
		})
	}

	middleware.LogActivity(c, "UPDATE", "events", event.ID, fiber.Map{
		"title": event.Title,
	})

	return c.JSON(fiber.Map{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// DeleteEvent removes an event
func (ec *EventController) DeleteEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event ID",
		})
	}

	var event models.Event
	if err := database.DB.First(&event, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Event not found",
		})
	}

	if err := database.DB.Delete(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete event",
		})
	}

	middleware.LogActivity(c, "DELETE", "events", event.ID, fiber.Map{
		"title": event.Title,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func validateEventRequest(req *EventRequest) (string, string, string) {
	if strings.TrimSpace(req.Title) == "" {
		return "Title is required", "", ""
	}

	if !req.EndUtc.After(req.StartUtc) {
		return "EndUtc must be greater than StartUtc", "", ""
	}

	if req.ReminderMinutesBefore != nil && *req.ReminderMinutesBefore < 0 {
		return "ReminderMinutesBefore must be null or >= 0", "", ""
	}

	repeatType, ok := utils.NormalizeValue(req.RepeatType, utils.EventRepeatTypes)
	if !ok {
		return "RepeatType must be one of: None, Daily, Weekly, Monthly", "", ""
	}

	status, ok := utils.NormalizeValue(req.Status, utils.EventStatuses)
	if !ok {
		return "Status must be one of: Planned, Cancelled", "", ""
	}

	var calendar models.Calendar
	if err := database.DB.First(&calendar, req.CalendarID).Error; err != nil {
		return "Calendar does not exist", "", ""
	}

	var createdBy models.User
	if err := database.DB.First(&createdBy, req.CreatedByUserID).Error; err != nil {
		return "CreatedByUser does not exist", "", ""
	}

	return "", repeatType, status
}
