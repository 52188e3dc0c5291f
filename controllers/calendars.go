package controllers

import (
	"calendartasking_go/database"
	"calendartasking_go/middleware"
	"calendartasking_go/models"
	"calendartasking_go/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CalendarController struct{}

// CalendarRequest is shared by create and full-replace update
type CalendarRequest struct {
	OwnerUserID uint   `json:"owner_user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ColorHex    string `json:"color_hex"`
	IsDefault   bool   `json:"is_default"`
}

// GetCalendars returns calendars, optionally filtered by owner
func (cc *CalendarController) GetCalendars(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Calendar{})

	if ownerUserID := c.Query("owner_user_id"); ownerUserID != "" {
		query = query.Where("owner_user_id = ?", ownerUserID)
	}

	var calendars []models.Calendar
	if err := query.Order("id").Find(&calendars).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch calendars",
		})
	}

	return c.JSON(fiber.Map{
		"calendars": calendars,
		"total":     len(calendars),
	})
}

// GetCalendar returns a specific calendar by ID
func (cc *CalendarController) GetCalendar(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid calendar ID",
		})
	}

	var calendar models.Calendar
	if err := database.DB.First(&calendar, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Calendar not found",
		})
	}

	return c.JSON(fiber.Map{
		"calendar": calendar,
	})
}

// CreateCalendar creates a new calendar
func (cc *CalendarController) CreateCalendar(c *fiber.Ctx) error {
	var req CalendarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if validationError := validateCalendarRequest(&req); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	name := strings.TrimSpace(req.Name)
	var existingCalendar models.Calendar
	if err := database.DB.Where("owner_user_id = ? AND name = ?", req.OwnerUserID, name).
		First(&existingCalendar).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Calendar name must be unique per owner",
		})
	}

	if req.IsDefault {
		resetDefaultForOwner(req.OwnerUserID, 0)
	}

	calendar := models.Calendar{
		OwnerUserID: req.OwnerUserID,
		Name:        name,
		Description: utils.OptionalString(req.Description),
		ColorHex:    strings.ToUpper(req.ColorHex),
		IsDefault:   req.IsDefault,
	}

	if err := database.DB.Create(&calendar).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create calendar",
		})
	}

	middleware.LogActivity(c, "CREATE", "calendars", calendar.ID, fiber.Map{
		"name":       calendar.Name,
		"is_default": calendar.IsDefault,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Calendar created successfully",
		"calendar": calendar,
	})
}

// UpdateCalendar replaces the mutable fields of an existing calendar
func (cc *CalendarController) UpdateCalendar(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid calendar ID",
		})
	}

	var calendar models.Calendar
	if err := database.DB.First(&calendar, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Calendar not found",
		})
	}

	var req CalendarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if validationError := validateCalendarRequest(&req); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	name := strings.TrimSpace(req.Name)
	var existingCalendar models.Calendar
	if err := database.DB.Where("owner_user_id = ? AND name = ? AND id != ?", req.OwnerUserID, name, calendar.ID).
		First(&existingCalendar).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Calendar name must be unique per owner",
		})
	}

	if req.IsDefault {
		resetDefaultForOwner(req.OwnerUserID, calendar.ID)
	}

	calendar.OwnerUserID = req.OwnerUserID
	calendar.Name = name
	calendar.Description = utils.OptionalString(req.Description)
	calendar.ColorHex = strings.ToUpper(req.ColorHex)
	calendar.IsDefault = req.IsDefault

	if err := database.DB.Save(&calendar).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update calendar",
		})
	}

	middleware.LogActivity(c, "UPDATE", "calendars", calendar.ID, fiber.Map{
		"name":       calendar.Name,
		"is_default": calendar.IsDefault,
	})

	return c.JSON(fiber.Map{
		"message":  "Calendar updated successfully",
		"calendar": calendar,
	})
}

// DeleteCalendar removes a calendar together with its events, tasks and sessions
func (cc *CalendarController) DeleteCalendar(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid calendar ID",
		})
	}

	var calendar models.Calendar
	if err := database.DB.First(&calendar, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Calendar not found",
		})
	}

	database.DB.Where("calendar_id = ?", calendar.ID).Delete(&models.Event{})
	database.DB.Where("calendar_id = ?", calendar.ID).Delete(&models.TaskItem{})
	database.DB.Where("calendar_id = ?", calendar.ID).Delete(&models.PrivateClassSession{})

	if err := database.DB.Delete(&calendar).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete calendar",
		})
	}

	middleware.LogActivity(c, "DELETE", "calendars", calendar.ID, fiber.Map{
		"name": calendar.Name,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func validateCalendarRequest(req *CalendarRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "Name is required"
	}

	if !utils.IsValidColorHex(req.ColorHex) {
		return "ColorHex must match #RRGGBB"
	}

	var owner models.User
	if err := database.DB.First(&owner, req.OwnerUserID).Error; err != nil {
		return "Owner user does not exist"
	}

	return ""
}

// resetDefaultForOwner flips is_default off on every other calendar of the
// owner. Read-then-write without a transaction: concurrent default-sets race
// and the last writer wins.
func resetDefaultForOwner(ownerUserID uint, exceptCalendarID uint) {
	query := database.DB.Model(&models.Calendar{}).
		Where("owner_user_id = ? AND is_default = ?", ownerUserID, true)
	if exceptCalendarID != 0 {
		query = query.Where("id != ?", exceptCalendarID)
	}
	query.Update("is_default", false)
}
