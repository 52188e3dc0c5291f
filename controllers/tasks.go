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

type TaskController struct{}

// TaskRequest is shared by create and full-replace update
type TaskRequest struct {
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

// GetTasks returns tasks filtered by calendar, status and due date
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	query := database.DB.Model(&models.TaskItem{})

	if calendarID := c.Query("calendar_id"); calendarID != "" {
		query = query.Where("calendar_id = ?", calendarID)
	}

	if status := c.Query("status"); status != "" {
		normalizedStatus, ok := utils.NormalizeValue(status, utils.TaskStatuses)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Status must be one of: Todo, InProgress, Done",
			})
		}
		query = query.Where("status = ?", normalizedStatus)
	}

	if dueBeforeUtc := c.Query("due_before_utc"); dueBeforeUtc != "" {
		dueBefore, err := time.Parse(time.RFC3339, dueBeforeUtc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "due_before_utc must be an ISO-8601 timestamp",
			})
		}
		query = query.Where("due_utc IS NOT NULL AND due_utc <= ?", dueBefore)
	}

	var tasks []models.TaskItem
	if err := query.Order("due_utc").Order("id").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	return c.JSON(fiber.Map{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// GetTask returns a specific task by ID
func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.TaskItem
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	return c.JSON(fiber.Map{
		"task": task,
	})
}

// CreateTask creates a new task
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	validationError, priority, status := validateTaskRequest(&req)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	task := models.TaskItem{
		CalendarID:            req.CalendarID,
		CreatedByUserID:       req.CreatedByUserID,
		Title:                 strings.TrimSpace(req.Title),
		Description:           utils.OptionalString(req.Description),
		DueUtc:                req.DueUtc,
		Priority:              priority,
		Status:                status,
		CompletedAtUtc:        resolveCompletedAtUtc(status, req.CompletedAtUtc),
		ReminderMinutesBefore: req.ReminderMinutesBefore,
	}

	if err := database.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	middleware.LogActivity(c, "CREATE", "tasks", task.ID, fiber.Map{
		"title": task.Title,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"task":    task,
	})
}

// UpdateTask replaces the mutable fields of an existing task
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.TaskItem
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	validationError, priority, status := validateTaskRequest(&req)
	if validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError,
		})
	}

	task.CalendarID = req.CalendarID
	task.CreatedByUserID = req.CreatedByUserID
	task.Title = strings.TrimSpace(req.Title)
	task.Description = utils.OptionalString(req.Description)
	task.DueUtc = req.DueUtc
	task.Priority = priority
	task.Status = status
	task.CompletedAtUtc = resolveCompletedAtUtc(status, req.CompletedAtUtc)
	task.ReminderMinutesBefore = req.ReminderMinutesBefore

	if err := database.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	middleware.LogActivity(c, "UPDATE", "tasks", task.ID, fiber.Map{
		"title": task.Title,
	})

	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"task":    task,
	})
}

// UpdateTaskStatus transitions only the status, resolving completed_at_utc
func (tc *TaskController) UpdateTaskStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.TaskItem
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var req struct {
		Status         string     `json:"status"`
		CompletedAtUtc *time.Time `json:"completed_at_utc"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	status, ok := utils.NormalizeValue(req.Status, utils.TaskStatuses)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be one of: Todo, InProgress, Done",
		})
	}

	task.Status = status
	task.CompletedAtUtc = resolveCompletedAtUtc(status, req.CompletedAtUtc)

	if err := database.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task status",
		})
	}

	middleware.LogActivity(c, "UPDATE", "tasks", task.ID, fiber.Map{
		"action":     "status_change",
		"new_status": status,
	})

	return c.JSON(fiber.Map{
		"message": "Task status updated successfully",
		"task":    task,
	})
}

// DeleteTask removes a task
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.TaskItem
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	if err := database.DB.Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete task",
		})
	}

	middleware.LogActivity(c, "DELETE", "tasks", task.ID, fiber.Map{
		"title": task.Title,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func validateTaskRequest(req *TaskRequest) (string, string, string) {
	if strings.TrimSpace(req.Title) == "" {
		return "Title is required", "", ""
	}

	if req.ReminderMinutesBefore != nil && *req.ReminderMinutesBefore < 0 {
		return "ReminderMinutesBefore must be null or >= 0", "", ""
	}

	priority, ok := utils.NormalizeValue(req.Priority, utils.TaskPriorities)
	if !ok {
		return "Priority must be one of: Low, Medium, High", "", ""
	}

	status, ok := utils.NormalizeValue(req.Status, utils.TaskStatuses)
	if !ok {
		return "Status must be one of: Todo, InProgress, Done", "", ""
	}

	var calendar models.Calendar
	if err := database.DB.First(&calendar, req.CalendarID).Error; err != nil {
		return "Calendar does not exist", "", ""
	}

	var createdBy models.User
	if err := database.DB.First(&createdBy, req.CreatedByUserID).Error; err != nil {
		return "CreatedByUser does not exist", "", ""
	}

	return "", priority, status
}

// resolveCompletedAtUtc keeps completed_at_utc coupled to the Done status:
// Done without an explicit value stamps now, anything else forces null.
func resolveCompletedAtUtc(status string, requested *time.Time) *time.Time {
	if status != "Done" {
		return nil
	}
	if requested != nil {
		return requested
	}
	now := time.Now().UTC()
	return &now
}
