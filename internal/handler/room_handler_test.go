package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/studyhub/api/internal/repository"
	"github.com/studyhub/api/internal/service"
	"go.uber.org/zap"
)

func setupRoomHandlerTest(t *testing.T) (*gin.Engine, *sqlx.DB, string) {
	t.Helper()

	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=studyhub_test sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test, could not connect to test database: %v", err)
	}

	gin.SetMode(gin.TestMode)

	rooms := repository.NewStudyRoomRepository(db)
	users := repository.NewUserRepository(db)
	roomService := service.NewStudyRoomService(db, rooms, users, zap.NewNop())
	handler := NewStudyRoomHandler(roomService)

	router := gin.New()
	group := router.Group("/api/v1/study-rooms")
	{
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.GetByID)
		group.PUT("/:id", handler.Update)
		group.PATCH("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}

	return router, db, repository.GenerateUniquePrefix()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func postJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func roomPayload(prefix string, creatorID int64) map[string]interface{} {
	return map[string]interface{}{
		"name":        prefix + "_room",
		"description": "Weekly session",
		"capacity":    8,
		"creator_id":  creatorID,
		"date":        "2024-06-01",
		"start_time":  "09:00",
		"end_time":    "10:30",
		"location":    "Library room 204",
		"mode":        "in-person",
	}
}

func createRoomViaAPI(t *testing.T, router *gin.Engine, prefix string, creatorID int64) int64 {
	t.Helper()

	w := postJSON(router, "POST", "/api/v1/study-rooms", roomPayload(prefix, creatorID))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Message string `json:"message"`
		RoomID  int64  `json:"room_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse create response: %v", err)
	}
	if body.Message != "Study room created" {
		t.Errorf("Expected creation message, got '%s'", body.Message)
	}
	if body.RoomID == 0 {
		t.Fatal("Expected room_id in create response")
	}
	return body.RoomID
}

func TestStudyRoomHandler_CreateAndFetch(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	roomID := createRoomViaAPI(t, router, prefix, user.ID)

	w := getJSON(router, "/api/v1/study-rooms/"+itoa(roomID))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var room map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatalf("Failed to parse room: %v", err)
	}

	if room["name"] != prefix+"_room" {
		t.Errorf("Expected room name, got %v", room["name"])
	}
	if room["date"] != "2024-06-01" {
		t.Errorf("Expected date '2024-06-01', got %v", room["date"])
	}
	if room["start_time"] != "09:00" || room["end_time"] != "10:30" {
		t.Errorf("Expected 09:00/10:30, got %v/%v", room["start_time"], room["end_time"])
	}
	// Fetch-one serves host as the creator's username
	if room["host"] != user.Username {
		t.Errorf("Expected host '%s', got %v", user.Username, room["host"])
	}
	if room["subject"] != "Weekly session" {
		t.Errorf("Expected subject mirroring description, got %v", room["subject"])
	}
}

func TestStudyRoomHandler_Create_MissingField(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	payload := roomPayload(prefix, user.ID)
	delete(payload, "end_time")

	w := postJSON(router, "POST", "/api/v1/study-rooms", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Missing required fields" {
		t.Errorf("Expected 'Missing required fields', got '%s'", body["message"])
	}
}

func TestStudyRoomHandler_Create_InvalidCapacity(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	payload := roomPayload(prefix, user.ID)
	payload["capacity"] = "abc"

	w := postJSON(router, "POST", "/api/v1/study-rooms", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Capacity must be an integer" {
		t.Errorf("Expected capacity message, got '%s'", body["message"])
	}
}

func TestStudyRoomHandler_Create_StringCapacity(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	payload := roomPayload(prefix, user.ID)
	payload["capacity"] = "12"

	w := postJSON(router, "POST", "/api/v1/study-rooms", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected numeric string capacity to pass, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStudyRoomHandler_GetByID_NotFound(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	w := getJSON(router, "/api/v1/study-rooms/999999999")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Room not found" {
		t.Errorf("Expected 'Room not found', got '%s'", body["message"])
	}
}

func TestStudyRoomHandler_GetByID_NonNumericID(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	w := getJSON(router, "/api/v1/study-rooms/not-a-number")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for non-numeric ID, got %d", w.Code)
	}
}

func TestStudyRoomHandler_List(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	roomID := createRoomViaAPI(t, router, prefix, user.ID)

	w := getJSON(router, "/api/v1/study-rooms")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("Expected a bare JSON array, got: %s", w.Body.String())
	}

	var mine map[string]interface{}
	for _, item := range items {
		if int64(item["room_id"].(float64)) == roomID {
			mine = item
		}
	}
	if mine == nil {
		t.Fatal("Expected created room in listing")
	}

	// The listing serves host as the creator object, not a username string
	host, ok := mine["host"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected host object in listing, got %v", mine["host"])
	}
	if host["username"] != user.Username {
		t.Errorf("Expected host username '%s', got %v", user.Username, host["username"])
	}
}

func TestStudyRoomHandler_List_Empty(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	w := getJSON(router, "/api/v1/study-rooms")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	// Even with no rows the body must be an array, never null
	body := bytes.TrimSpace(w.Body.Bytes())
	if body[0] != '[' {
		t.Errorf("Expected a JSON array body, got: %s", body)
	}
}

func TestStudyRoomHandler_Update(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	roomID := createRoomViaAPI(t, router, prefix, user.ID)

	w := postJSON(router, "PUT", "/api/v1/study-rooms/"+itoa(roomID), map[string]interface{}{
		"name":     prefix + "_renamed",
		"capacity": 15,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var room map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &room)
	if room["name"] != prefix+"_renamed" {
		t.Errorf("Expected renamed room, got %v", room["name"])
	}
	if room["capacity"] != float64(15) {
		t.Errorf("Expected capacity 15, got %v", room["capacity"])
	}
	// Untouched fields survive
	if room["date"] != "2024-06-01" {
		t.Errorf("Expected date unchanged, got %v", room["date"])
	}
}

func TestStudyRoomHandler_Update_Patch(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	roomID := createRoomViaAPI(t, router, prefix, user.ID)

	// PATCH routes through the same staged update
	w := postJSON(router, "PATCH", "/api/v1/study-rooms/"+itoa(roomID), map[string]interface{}{
		"location": "Online",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var room map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &room)
	if room["location"] != "Online" {
		t.Errorf("Expected updated location, got %v", room["location"])
	}
	if room["mode"] != "in-person" {
		t.Errorf("Expected mode unchanged, got %v", room["mode"])
	}
}

func TestStudyRoomHandler_Update_InvalidCapacityLeavesRecordUntouched(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	roomID := createRoomViaAPI(t, router, prefix, user.ID)

	w := postJSON(router, "PUT", "/api/v1/study-rooms/"+itoa(roomID), map[string]interface{}{
		"name":     prefix + "_should_not_apply",
		"capacity": "abc",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	// The valid name in the same payload must not have been written
	w = getJSON(router, "/api/v1/study-rooms/"+itoa(roomID))
	var room map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &room)
	if room["name"] != prefix+"_room" {
		t.Errorf("Expected name untouched after rejected update, got %v", room["name"])
	}
}

func TestStudyRoomHandler_Update_NotFound(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	w := postJSON(router, "PUT", "/api/v1/study-rooms/999999999", map[string]interface{}{
		"name": prefix + "_ghost",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestStudyRoomHandler_Update_EmptyBodyIsNoop(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	roomID := createRoomViaAPI(t, router, prefix, user.ID)

	req := httptest.NewRequest("PUT", "/api/v1/study-rooms/"+itoa(roomID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected bodyless update to answer 200, got %d: %s", w.Code, w.Body.String())
	}

	var room map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &room)
	if room["name"] != prefix+"_room" {
		t.Errorf("Expected room unchanged, got %v", room["name"])
	}
}

func TestStudyRoomHandler_DeleteThenFetch(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	user := repository.CreateIsolatedTestUser(t, db, prefix, "creator")
	roomID := createRoomViaAPI(t, router, prefix, user.ID)

	req := httptest.NewRequest("DELETE", "/api/v1/study-rooms/"+itoa(roomID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Room deleted successfully" {
		t.Errorf("Expected delete message, got '%s'", body["message"])
	}

	w = getJSON(router, "/api/v1/study-rooms/"+itoa(roomID))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}

func TestStudyRoomHandler_Delete_NotFound(t *testing.T) {
	router, db, prefix := setupRoomHandlerTest(t)
	defer db.Close()
	defer repository.CleanupTestDataByPrefix(t, db, prefix)

	req := httptest.NewRequest("DELETE", "/api/v1/study-rooms/999999999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
