package model

import (
	"database/sql"
	"time"
)

type StudyRoom struct {
	RoomID      int64          `db:"room_id" json:"room_id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	Capacity    int            `db:"capacity" json:"capacity"`
	CreatorID   int64          `db:"creator_id" json:"creator_id"`
	Date        sql.NullTime   `db:"date" json:"date"`
	StartTime   sql.NullTime   `db:"start_time" json:"start_time"`
	EndTime     sql.NullTime   `db:"end_time" json:"end_time"`
	Location    sql.NullString `db:"location" json:"location,omitempty"`
	Mode        sql.NullString `db:"mode" json:"mode,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// GetDescription returns description or empty string
func (r *StudyRoom) GetDescription() string {
	if r.Description.Valid {
		return r.Description.String
	}
	return ""
}

// GetLocation returns location or empty string
func (r *StudyRoom) GetLocation() string {
	if r.Location.Valid {
		return r.Location.String
	}
	return ""
}

// GetMode returns mode or empty string
func (r *StudyRoom) GetMode() string {
	if r.Mode.Valid {
		return r.Mode.String
	}
	return ""
}

// DateString returns the booking date as YYYY-MM-DD, or empty when unset.
func (r *StudyRoom) DateString() string {
	if !r.Date.Valid || r.Date.Time.IsZero() {
		return ""
	}
	return r.Date.Time.Format("2006-01-02")
}

// StartTimeString returns the start time of day as HH:MM.
// Missing or zero timestamps fall back to "00:00".
func (r *StudyRoom) StartTimeString() string {
	return clockString(r.StartTime)
}

// EndTimeString returns the end time of day as HH:MM.
// Missing or zero timestamps fall back to "00:00".
func (r *StudyRoom) EndTimeString() string {
	return clockString(r.EndTime)
}

func clockString(t sql.NullTime) string {
	if !t.Valid || t.Time.IsZero() {
		return "00:00"
	}
	return t.Time.Format("15:04")
}

// StudyRoomDetail includes the hydrated creator row
type StudyRoomDetail struct {
	StudyRoom
	Creator *User `json:"creator,omitempty"`
}
