package routes

import (
	"calendartasking_go/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	// Initialize controllers
	userController := &controllers.UserController{}
	calendarController := &controllers.CalendarController{}
	eventController := &controllers.EventController{}
	taskController := &controllers.TaskController{}
	sessionController := &controllers.SessionController{}
	reportController := &controllers.ReportController{}
	notificationController := &controllers.NotificationController{}
	healthController := &controllers.HealthController{}

	// API group
	api := app.Group("/api")

	api.Get("/health", healthController.GetHealthStatus)

	// User routes
	users := api.Group("/users")
	users.Get("/", userController.GetUsers)
	users.Post("/register", userController.Register)
	users.Post("/login", userController.Login)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id/password", userController.ChangePassword)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)

	// Calendar routes
	calendars := api.Group("/calendars")
	calendars.Get("/", calendarController.GetCalendars)
	calendars.Get("/:id", calendarController.GetCalendar)
	calendars.Post("/", calendarController.CreateCalendar)
	calendars.Put("/:id", calendarController.UpdateCalendar)
	calendars.Delete("/:id", calendarController.DeleteCalendar)

	// Event routes
	events := api.Group("/events")
	events.Get("/", eventController.GetEvents)
	events.Get("/:id", eventController.GetEvent)
	events.Post("/", eventController.CreateEvent)
	events.Put("/:id", eventController.UpdateEvent)
	events.Delete("/:id", eventController.DeleteEvent)

	// Task routes
	tasks := api.Group("/tasks")
	tasks.Get("/", taskController.GetTasks)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Post("/", taskController.CreateTask)
	tasks.Put("/:id/status", taskController.UpdateTaskStatus)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", taskController.DeleteTask)

	// Private class session routes
	sessions := api.Group("/private-class-sessions")
	sessions.Get("/", sessionController.GetSessions)
	sessions.Get("/unpaid", sessionController.GetUnpaidSessions)
	sessions.Get("/monthly-summary", sessionController.GetMonthlySummary)
	sessions.Get("/monthly-report", reportController.GetMonthlyReport)
	sessions.Get("/:id", sessionController.GetSession)
	sessions.Post("/", sessionController.CreateSession)
	sessions.Put("/:id/mark-paid", sessionController.MarkPaid)
	sessions.Put("/:id/mark-unpaid", sessionController.MarkUnpaid)
	sessions.Put("/:id", sessionController.UpdateSession)
	sessions.Delete("/:id", sessionController.DeleteSession)

	// Notification routes
	notifications := api.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
}

// SetupStaticRoutes configures static file serving
func SetupStaticRoutes(app *fiber.App) {
	app.Static("/", "./public")
}
