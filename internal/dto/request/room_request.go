package request

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/studyhub/api/internal/model"
)

// ValidationError is the client-facing rejection of a single payload field.
// The first invalid field aborts parsing.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var createRequiredFields = []string{
	"name", "capacity", "creator_id", "date", "start_time", "end_time", "location", "mode",
}

// CreateStudyRoomData is a fully validated create payload
type CreateStudyRoomData struct {
	Name        string
	Description string
	Capacity    int
	CreatorID   int64
	Date        time.Time
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Mode        string
}

// ParseCreateStudyRoom validates a raw create payload field by field, in a
// fixed order, and stops at the first invalid field. Every required key must
// be present; capacity and creator_id accept JSON numbers or numeric strings.
func ParseCreateStudyRoom(data map[string]interface{}) (*CreateStudyRoomData, *ValidationError) {
	if data == nil {
		return nil, &ValidationError{Field: "body", Message: "Missing required fields"}
	}
	for _, field := range createRequiredFields {
		if _, ok := data[field]; !ok {
			return nil, &ValidationError{Field: field, Message: "Missing required fields"}
		}
	}

	name := trimmedString(data["name"])
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "Study room name cannot be empty"}
	}

	capacity, ok := coerceInt(data["capacity"])
	if !ok {
		return nil, &ValidationError{Field: "capacity", Message: "Capacity must be an integer"}
	}
	if capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Message: "Capacity must be greater than zero"}
	}

	creatorID, ok := coerceInt(data["creator_id"])
	if !ok {
		return nil, &ValidationError{Field: "creator_id", Message: "Creator ID must be an integer"}
	}

	dateStr := trimmedString(data["date"])
	if dateStr == "" {
		return nil, &ValidationError{Field: "date", Message: "Date is required"}
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "Invalid date format, expected YYYY-MM-DD"}
	}

	startStr := trimmedString(data["start_time"])
	if startStr == "" {
		return nil, &ValidationError{Field: "start_time", Message: "Start time is required"}
	}
	startTime, err := combineClock(date, startStr)
	if err != nil {
		return nil, &ValidationError{Field: "start_time", Message: "Invalid start_time format, expected HH:mm"}
	}

	endStr := trimmedString(data["end_time"])
	if endStr == "" {
		return nil, &ValidationError{Field: "end_time", Message: "End time is required"}
	}
	endTime, err := combineClock(date, endStr)
	if err != nil {
		return nil, &ValidationError{Field: "end_time", Message: "Invalid end_time format, expected HH:mm"}
	}

	location := trimmedString(data["location"])
	if location == "" {
		return nil, &ValidationError{Field: "location", Message: "Location is required"}
	}

	mode := trimmedString(data["mode"])
	if mode == "" {
		return nil, &ValidationError{Field: "mode", Message: "Mode is required"}
	}

	return &CreateStudyRoomData{
		Name:        name,
		Description: trimmedString(data["description"]),
		Capacity:    int(capacity),
		CreatorID:   creatorID,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		Location:    location,
		Mode:        mode,
	}, nil
}

// ParseUpdateStudyRoom stages a partial update onto a copy of the current
// record. Every present field is validated before anything is returned, so
// a rejected payload leaves the stored record untouched. Times are
// recombined with the staged date, which may itself change in the same
// payload.
func ParseUpdateStudyRoom(data map[string]interface{}, current *model.StudyRoom) (*model.StudyRoom, *ValidationError) {
	draft := *current

	if raw, ok := data["name"]; ok {
		name, ok := asString(raw)
		if !ok {
			return nil, &ValidationError{Field: "name", Message: "Name must be a string"}
		}
		draft.Name = strings.TrimSpace(name)
	}

	if raw, ok := data["description"]; ok {
		desc, ok := asString(raw)
		if !ok {
			return nil, &ValidationError{Field: "description", Message: "Description must be a string"}
		}
		draft.Description = nullString(strings.TrimSpace(desc))
	}

	if raw, ok := data["capacity"]; ok {
		capacity, ok := coerceInt(raw)
		if !ok {
			return nil, &ValidationError{Field: "capacity", Message: "Capacity must be an integer"}
		}
		if capacity <= 0 {
			return nil, &ValidationError{Field: "capacity", Message: "Capacity must be greater than zero"}
		}
		draft.Capacity = int(capacity)
	}

	if raw, ok := data["date"]; ok {
		date, err := time.Parse(dateLayout, trimmedString(raw))
		if err != nil {
			return nil, &ValidationError{Field: "date", Message: "Invalid date format, expected YYYY-MM-DD"}
		}
		draft.Date = sql.NullTime{Time: date, Valid: true}
	}

	if raw, ok := data["start_time"]; ok {
		start, err := combineClock(draftDate(&draft), trimmedString(raw))
		if err != nil {
			return nil, &ValidationError{Field: "start_time", Message: "Invalid start_time format, expected HH:mm"}
		}
		draft.StartTime = sql.NullTime{Time: start, Valid: true}
	}

	if raw, ok := data["end_time"]; ok {
		end, err := combineClock(draftDate(&draft), trimmedString(raw))
		if err != nil {
			return nil, &ValidationError{Field: "end_time", Message: "Invalid end_time format, expected HH:mm"}
		}
		draft.EndTime = sql.NullTime{Time: end, Valid: true}
	}

	if raw, ok := data["location"]; ok {
		location, ok := asString(raw)
		if !ok {
			return nil, &ValidationError{Field: "location", Message: "Location must be a string"}
		}
		draft.Location = nullString(strings.TrimSpace(location))
	}

	if raw, ok := data["mode"]; ok {
		mode, ok := asString(raw)
		if !ok {
			return nil, &ValidationError{Field: "mode", Message: "Mode must be a string"}
		}
		draft.Mode = nullString(strings.TrimSpace(mode))
	}

	return &draft, nil
}

// coerceInt accepts JSON numbers and numeric strings. Floats truncate
// toward zero, matching the loose typing the front end relies on.
func coerceInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func trimmedString(v interface{}) string {
	s, _ := asString(v)
	return strings.TrimSpace(s)
}

// combineClock parses an HH:MM time of day and anchors it on the given date
func combineClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func draftDate(draft *model.StudyRoom) time.Time {
	if draft.Date.Valid {
		return draft.Date.Time
	}
	return time.Time{}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
