package controllers_test

import (
	"net/http"
	"testing"

	"calendartasking_go/database"
	"calendartasking_go/models"
)

func TestNotificationsListAndMarkRead(t *testing.T) {
	app := setupApp(t)
	userID := registerUser(t, app, "reader@example.com")

	seed := []models.Notification{
		{UserID: userID, Title: "Upcoming event", Message: "Event starts soon", Type: "reminder"},
		{UserID: userID, Title: "Task due soon", Message: "Task is due", Type: "reminder"},
		{UserID: userID + 1, Title: "Other user", Message: "Not yours", Type: "reminder"},
	}
	for i := range seed {
		if err := database.DB.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}

	var list struct {
		Notifications []models.Notification `json:"notifications"`
		Total         int                   `json:"total"`
	}

	resp := doJSON(t, app, http.MethodGet, requestPath("/api/notifications?user_id=%d", userID), nil)
	wantStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &list)
	if list.Total != 2 {
		t.Fatalf("user filter returned %d notifications, want 2", list.Total)
	}

	resp = doJSON(t, app, http.MethodPatch,
		requestPath("/api/notifications/%d/read", seed[0].ID), nil)
	wantStatus(t, resp, http.StatusOK)

	resp = doJSON(t, app, http.MethodGet,
		requestPath("/api/notifications?user_id=%d&unread=true", userID), nil)
	wantStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &list)
	if list.Total != 1 {
		t.Errorf("unread filter returned %d notifications, want 1", list.Total)
	}
}
