package response

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/studyhub/api/internal/model"
)

func sampleDetail() *model.StudyRoomDetail {
	return &model.StudyRoomDetail{
		StudyRoom: model.StudyRoom{
			RoomID:      42,
			Name:        "Algorithms study group",
			Description: sql.NullString{String: "Weekly DP session", Valid: true},
			Capacity:    8,
			CreatorID:   1,
			Date:        sql.NullTime{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Valid: true},
			StartTime:   sql.NullTime{Time: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), Valid: true},
			EndTime:     sql.NullTime{Time: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), Valid: true},
			Location:    sql.NullString{String: "Library room 204", Valid: true},
			Mode:        sql.NullString{String: "in-person", Valid: true},
		},
		Creator: &model.User{
			ID:       1,
			Username: "alice",
			Email:    "alice@example.com",
		},
	}
}

func TestNewStudyRoomView(t *testing.T) {
	view := NewStudyRoomView(sampleDetail())

	if view.ID != "room-42" {
		t.Errorf("Expected id 'room-42', got '%s'", view.ID)
	}
	if view.Host != "alice" {
		t.Errorf("Expected host 'alice', got '%s'", view.Host)
	}
	if view.Subject != "Weekly DP session" {
		t.Errorf("Expected subject mirroring description, got '%s'", view.Subject)
	}
	if view.Date != "2024-06-01" {
		t.Errorf("Expected date '2024-06-01', got '%s'", view.Date)
	}
	if view.StartTime != "09:00" || view.EndTime != "10:30" {
		t.Errorf("Expected 09:00/10:30, got %s/%s", view.StartTime, view.EndTime)
	}
	if view.Participants == nil || len(view.Participants) != 0 {
		t.Error("Expected empty participants slice, not nil")
	}
	if view.Error != "" {
		t.Errorf("Expected no error field, got '%s'", view.Error)
	}
}

func TestNewStudyRoomView_MissingFieldsDefault(t *testing.T) {
	detail := sampleDetail()
	detail.Creator = nil
	detail.Description = sql.NullString{}
	detail.Date = sql.NullTime{}
	detail.EndTime = sql.NullTime{}

	view := NewStudyRoomView(detail)

	if view.Host != "Anonymous" {
		t.Errorf("Expected host 'Anonymous' without a creator, got '%s'", view.Host)
	}
	if view.Date != "" {
		t.Errorf("Expected empty date string, got '%s'", view.Date)
	}
	if view.EndTime != "00:00" {
		t.Errorf("Expected end_time '00:00' when unset, got '%s'", view.EndTime)
	}
	if view.Description != "" {
		t.Errorf("Expected empty description, got '%s'", view.Description)
	}
}

func TestCreatorView_MarshalEmptyObject(t *testing.T) {
	detail := sampleDetail()
	detail.Creator = nil

	data, err := json.Marshal(NewStudyRoomView(detail))
	if err != nil {
		t.Fatalf("Failed to marshal view: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode view: %v", err)
	}
	if string(decoded["creator"]) != "{}" {
		t.Errorf("Expected creator to serialize as {}, got %s", decoded["creator"])
	}
}

func TestCreatorView_MarshalPresent(t *testing.T) {
	data, err := json.Marshal(NewStudyRoomView(sampleDetail()))
	if err != nil {
		t.Fatalf("Failed to marshal view: %v", err)
	}

	var decoded struct {
		Creator struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"creator"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode view: %v", err)
	}
	if decoded.Creator.Username != "alice" || decoded.Creator.Email != "alice@example.com" {
		t.Errorf("Expected creator object, got %+v", decoded.Creator)
	}
}

func TestPlaceholderStudyRoomView(t *testing.T) {
	view := PlaceholderStudyRoomView(7, errors.New("boom"))

	if view.Name != "Room 7" {
		t.Errorf("Expected placeholder name 'Room 7', got '%s'", view.Name)
	}
	if view.Host != "Unknown" {
		t.Errorf("Expected host 'Unknown', got '%s'", view.Host)
	}
	if view.Creator.Username != "Unknown" || !view.Creator.Present {
		t.Errorf("Expected Unknown creator object, got %+v", view.Creator)
	}
	if view.StartTime != "00:00" || view.EndTime != "00:00" {
		t.Errorf("Expected 00:00 placeholder times, got %s/%s", view.StartTime, view.EndTime)
	}
	if view.Error != "Error: boom" {
		t.Errorf("Expected 'Error: boom', got '%s'", view.Error)
	}
}

func TestNewStudyRoomListItem(t *testing.T) {
	item := NewStudyRoomListItem(sampleDetail())

	// The listing uses the creator object as host, unlike the single-room view.
	if item.Host.Username != "alice" || !item.Host.Present {
		t.Errorf("Expected host creator object, got %+v", item.Host)
	}
	if item.Date == nil || *item.Date != "2024-06-01" {
		t.Errorf("Expected date pointer '2024-06-01', got %v", item.Date)
	}
}

func TestNewStudyRoomListItem_MissingDateIsNull(t *testing.T) {
	detail := sampleDetail()
	detail.Date = sql.NullTime{}

	data, err := json.Marshal(NewStudyRoomListItem(detail))
	if err != nil {
		t.Fatalf("Failed to marshal item: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode item: %v", err)
	}
	if string(decoded["date"]) != "null" {
		t.Errorf("Expected date to serialize as null, got %s", decoded["date"])
	}
}

func TestPlaceholderStudyRoomListItem(t *testing.T) {
	item := PlaceholderStudyRoomListItem(9, errors.New("scan failed"))

	if item.Name != "Room 9" {
		t.Errorf("Expected placeholder name 'Room 9', got '%s'", item.Name)
	}
	if item.Host.Username != "Unknown" || item.Creator.Username != "Unknown" {
		t.Errorf("Expected Unknown host and creator, got %+v / %+v", item.Host, item.Creator)
	}
	if item.Error != "Error: scan failed" {
		t.Errorf("Expected 'Error: scan failed', got '%s'", item.Error)
	}
}
