package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/DreamGlimmer/movinin-sub000/models"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func buildNotificationTestApp(t *testing.T) *iris.Application {
	t.Helper()
	app := iris.New()
	app.Validator = validator.New()

	api := app.Party("/api")
	{
		api.Get("/notification-counter/{userId:uint}", GetNotificationCounter)
		api.Get("/notifications/{userId:uint}/{page:int}/{size:int}", GetNotifications)
		api.Post("/mark-notifications-as-read/{userId:uint}", MarkNotificationsAsRead)
		api.Post("/mark-notifications-as-unread/{userId:uint}", MarkNotificationsAsUnread)
		api.Post("/delete-notifications/{userId:uint}", DeleteNotifications)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app
}

func TestNotificationCounterCreatedLazily(t *testing.T) {
	db := setupTestDB(t)
	app := buildNotificationTestApp(t)
	_, renter, _ := seedRentalWorld(t, db)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/notification-counter/%d", renter.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	var counter models.NotificationCounter
	if err := db.Where("user_id = ?", renter.ID).First(&counter).Error; err != nil {
		t.Fatalf("expected counter row after first access: %v", err)
	}
	if counter.Count != 0 {
		t.Fatalf("expected fresh counter at 0, got %d", counter.Count)
	}
}

func TestMarkAsReadAdjustsCounterByFlippedRowsOnly(t *testing.T) {
	db := setupTestDB(t)
	app := buildNotificationTestApp(t)
	_, renter, booking := seedRentalWorld(t, db)

	// Three notifications, one already read; counter reflects two unread.
	var ids []uint
	for i := 0; i < 3; i++ {
		n := models.Notification{UserID: renter.ID, BookingID: &booking.ID, Message: "status update", IsRead: i == 2}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("failed to seed notification: %v", err)
		}
		ids = append(ids, n.ID)
	}
	if err := db.Create(&models.NotificationCounter{UserID: renter.ID, Count: 2}).Error; err != nil {
		t.Fatalf("failed to seed counter: %v", err)
	}

	// Requesting all three ids only flips the two unread rows.
	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/mark-notifications-as-read/%d", renter.ID),
		map[string]interface{}{"ids": ids})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	if got := counterValue(t, db, renter.ID); got != 0 {
		t.Fatalf("expected counter 0 after marking read, got %d", got)
	}

	// Marking the same ids unread flips all three back.
	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/mark-notifications-as-unread/%d", renter.ID),
		map[string]interface{}{"ids": ids})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := counterValue(t, db, renter.ID); got != 3 {
		t.Fatalf("expected counter 3 after marking unread, got %d", got)
	}

	// Repeating the unread call flips nothing.
	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/mark-notifications-as-unread/%d", renter.ID),
		map[string]interface{}{"ids": ids})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := counterValue(t, db, renter.ID); got != 3 {
		t.Fatalf("expected counter to stay at 3, got %d", got)
	}
}

func TestDeleteNotificationsAdjustsCounterByUnreadOnly(t *testing.T) {
	db := setupTestDB(t)
	app := buildNotificationTestApp(t)
	_, renter, _ := seedRentalWorld(t, db)

	var ids []uint
	for i := 0; i < 2; i++ {
		n := models.Notification{UserID: renter.ID, Message: "note", IsRead: i == 1}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("failed to seed notification: %v", err)
		}
		ids = append(ids, n.ID)
	}
	if err := db.Create(&models.NotificationCounter{UserID: renter.ID, Count: 1}).Error; err != nil {
		t.Fatalf("failed to seed counter: %v", err)
	}

	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/delete-notifications/%d", renter.ID),
		map[string]interface{}{"ids": ids})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	if got := notificationCount(t, db, renter.ID); got != 0 {
		t.Fatalf("expected all notifications deleted, got %d", got)
	}
	if got := counterValue(t, db, renter.ID); got != 0 {
		t.Fatalf("expected counter 0 after deleting the unread row, got %d", got)
	}
}

func TestGetNotificationsPaginates(t *testing.T) {
	db := setupTestDB(t)
	app := buildNotificationTestApp(t)
	_, renter, _ := seedRentalWorld(t, db)

	for i := 0; i < 5; i++ {
		n := models.Notification{UserID: renter.ID, Message: fmt.Sprintf("note %d", i)}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("failed to seed notification: %v", err)
		}
	}

	resp := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/notifications/%d/1/2", renter.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	var facets []struct {
		ResultData []models.Notification `json:"resultData"`
		PageInfo   []struct {
			TotalRecords int64 `json:"totalRecords"`
		} `json:"pageInfo"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &facets); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(facets[0].ResultData) != 2 {
		t.Fatalf("expected a page of 2, got %d", len(facets[0].ResultData))
	}
	if facets[0].PageInfo[0].TotalRecords != 5 {
		t.Fatalf("expected total 5, got %d", facets[0].PageInfo[0].TotalRecords)
	}
}
