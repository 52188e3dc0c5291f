package workspace_test

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"calendartasking_go/database"
	"calendartasking_go/models"
	"calendartasking_go/routes"
	"calendartasking_go/workspace"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// startServer boots the API on a loopback listener over an in-memory
// database and returns its base URL.
func startServer(t *testing.T) string {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Calendar{},
		&models.Event{},
		&models.TaskItem{},
		&models.PrivateClassSession{},
		&models.Notification{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	database.DB = db

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	routes.SetupRoutes(app)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go func() {
		_ = app.Listener(listener)
	}()

	t.Cleanup(func() {
		_ = app.Shutdown()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return "http://" + listener.Addr().String()
}

func TestRegisterBootstrapsStarterCalendar(t *testing.T) {
	baseURL := startServer(t)
	ws := workspace.NewWorkspace(workspace.NewClient(baseURL))

	if ws.Phase() != workspace.PhaseUnauthenticated {
		t.Fatalf("phase = %v, want unauthenticated", ws.Phase())
	}

	if err := ws.Register("new@example.com", "secret123", "New", "User", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if ws.Phase() != workspace.PhaseActive {
		t.Fatalf("phase = %v, want active after register", ws.Phase())
	}
	calendar := ws.ActiveCalendar()
	if calendar == nil {
		t.Fatal("no active calendar after register")
	}
	if !calendar.IsDefault {
		t.Error("starter calendar is not the default")
	}
	if ws.Summary() == nil {
		t.Error("monthly summary not loaded after bootstrap")
	}
}

func TestLoginPicksDefaultCalendar(t *testing.T) {
	baseURL := startServer(t)
	client := workspace.NewClient(baseURL)

	user, err := client.Register("tutor@example.com", "secret123", "Tu", "Tor", "UTC")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := client.CreateCalendar(workspace.CalendarPayload{
		OwnerUserID: user.ID, Name: "Plain", ColorHex: "#111111",
	}); err != nil {
		t.Fatalf("CreateCalendar: %v", err)
	}
	preferred, err := client.CreateCalendar(workspace.CalendarPayload{
		OwnerUserID: user.ID, Name: "Preferred", ColorHex: "#222222", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("CreateCalendar: %v", err)
	}

	ws := workspace.NewWorkspace(client)
	if err := ws.Login("tutor@example.com", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if ws.ActiveCalendar() == nil || ws.ActiveCalendar().ID != preferred.ID {
		t.Errorf("active calendar = %v, want the default one", ws.ActiveCalendar())
	}
}

func TestLoginFailureStaysUnauthenticated(t *testing.T) {
	baseURL := startServer(t)
	ws := workspace.NewWorkspace(workspace.NewClient(baseURL))

	err := ws.Login("nobody@example.com", "secret123")
	if err == nil {
		t.Fatal("Login succeeded for an unknown account")
	}

	var apiErr *workspace.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Errorf("err = %v, want a 401 APIError", err)
	}
	if ws.Phase() != workspace.PhaseUnauthenticated {
		t.Errorf("phase = %v, want unauthenticated after failed login", ws.Phase())
	}
	if notices := ws.Notices(); len(notices) == 0 {
		t.Error("failed login left no notice")
	}
}

func TestNetworkFailureUsesSentinelStatus(t *testing.T) {
	// A listener that is immediately closed guarantees a refused connection
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	client := workspace.NewClient("http://" + addr)
	_, err = client.Login("a@example.com", "secret123")
	if err == nil {
		t.Fatal("Login succeeded against a closed port")
	}

	var apiErr *workspace.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 0 {
		t.Errorf("err = %v, want APIError with sentinel status 0", err)
	}
}

func TestGesturePersistsEventMove(t *testing.T) {
	baseURL := startServer(t)
	ws := workspace.NewWorkspace(workspace.NewClient(baseURL))

	if err := ws.Register("drag@example.com", "secret123", "Drag", "User", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	client := workspace.NewClient(baseURL)
	day := ws.SelectedDay()
	start := day.Add(9 * time.Hour)

	resp, err := clientCreateEvent(client, ws, "Lesson", start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := ws.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	items := ws.DayItems()
	if len(items) != 1 {
		t.Fatalf("day has %d items, want 1", len(items))
	}

	if err := ws.Timeline.BeginDrag(items[0]); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	ws.Timeline.MoveBy(45)

	result, active := ws.ReleaseGesture()
	if !active || !result.Moved {
		t.Fatalf("release = %+v active=%v, want a persisted move", result, active)
	}
	if notices := ws.Notices(); len(notices) != 0 {
		t.Fatalf("release produced notices: %v", notices)
	}

	moved := false
	for _, event := range ws.Events() {
		if event.ID == resp.ID && event.StartUtc.Equal(start.Add(45*time.Minute)) {
			moved = true
		}
	}
	if !moved {
		t.Error("event start not persisted after gesture release")
	}
}

func TestDayChangeCancelsGesture(t *testing.T) {
	baseURL := startServer(t)
	ws := workspace.NewWorkspace(workspace.NewClient(baseURL))

	if err := ws.Register("cancel@example.com", "secret123", "Can", "Cel", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	item := workspace.TimelineItem{Kind: workspace.KindEvent, ID: 1, StartMinutes: 540, DurationMinutes: 60}
	if err := ws.Timeline.BeginDrag(item); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}

	ws.SelectDay(ws.SelectedDay().AddDate(0, 0, 1))

	if _, active := ws.ReleaseGesture(); active {
		t.Error("gesture survived a day change")
	}
}

// clientCreateEvent posts an event through the API client types
func clientCreateEvent(client *workspace.Client, ws *workspace.Workspace, title string, start, end time.Time) (*models.Event, error) {
	return client.CreateEvent(workspace.EventPayload{
		CalendarID:      ws.ActiveCalendar().ID,
		CreatedByUserID: ws.Identity().UserID,
		Title:           title,
		StartUtc:        start,
		EndUtc:          end,
		RepeatType:      "None",
		Status:          "Planned",
	})
}
