package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calendartasking_go/database"
	"calendartasking_go/models"
	"calendartasking_go/routes"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// setupApp wires the routes onto an in-memory database. The shared-cache DSN
// keeps every pooled connection on the same database.
func setupApp(t *testing.T) *fiber.App {
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
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	app := fiber.New()
	routes.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode response %q: %v", string(data), err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d, body: %s", resp.StatusCode, want, string(data))
	}
}

func requestPath(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// registerUser creates an account over the API and returns its id
func registerUser(t *testing.T, app *fiber.App, email string) uint {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/users/register", map[string]string{
		"email":      email,
		"password":   "secret123",
		"first_name": "Test",
		"last_name":  "User",
	})
	wantStatus(t, resp, http.StatusCreated)

	var body struct {
		User models.User `json:"user"`
	}
	decodeBody(t, resp, &body)
	return body.User.ID
}

// createCalendar creates a calendar over the API and returns its id
func createCalendar(t *testing.T, app *fiber.App, ownerID uint, name string, isDefault bool) uint {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/calendars", map[string]interface{}{
		"owner_user_id": ownerID,
		"name":          name,
		"color_hex":     "#4A90D9",
		"is_default":    isDefault,
	})
	wantStatus(t, resp, http.StatusCreated)

	var body struct {
		Calendar models.Calendar `json:"calendar"`
	}
	decodeBody(t, resp, &body)
	return body.Calendar.ID
}
