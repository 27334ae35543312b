package response

import (
	"encoding/json"
	"fmt"

	"github.com/studyhub/api/internal/model"
)

// CreatorView is the client-facing creator object. It serializes as {}
// until Present is set, matching what the front end expects for rooms
// whose creator row is gone.
type CreatorView struct {
	ID       int64
	Username string
	Email    string
	Present  bool
}

func (v CreatorView) MarshalJSON() ([]byte, error) {
	if !v.Present {
		return []byte("{}"), nil
	}
	return json.Marshal(struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}{v.ID, v.Username, v.Email})
}

func creatorViewOf(creator *model.User) CreatorView {
	if creator == nil {
		return CreatorView{}
	}
	return CreatorView{
		ID:       creator.ID,
		Username: creator.Username,
		Email:    creator.Email,
		Present:  true,
	}
}

// StudyRoomView is the canonical client-facing shape of a single room,
// used by fetch-one and by update's success body. Every field carries a
// defensive default so the payload is always renderable.
type StudyRoomView struct {
	RoomID       int64       `json:"room_id"`
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Subject      string      `json:"subject"`
	Capacity     int         `json:"capacity"`
	Description  string      `json:"description"`
	Participants []string    `json:"participants"`
	Host         string      `json:"host"`
	CreatorID    int64       `json:"creator_id"`
	Creator      CreatorView `json:"creator"`
	Date         string      `json:"date"`
	StartTime    string      `json:"start_time"`
	EndTime      string      `json:"end_time"`
	Location     string      `json:"location"`
	Mode         string      `json:"mode"`
	Error        string      `json:"error,omitempty"`
}

// NewStudyRoomView builds the canonical view of a room
func NewStudyRoomView(detail *model.StudyRoomDetail) *StudyRoomView {
	host := "Anonymous"
	if detail.Creator != nil {
		host = detail.Creator.Username
	}

	return &StudyRoomView{
		RoomID:       detail.RoomID,
		ID:           fmt.Sprintf("room-%d", detail.RoomID),
		Name:         detail.Name,
		Subject:      detail.GetDescription(),
		Capacity:     detail.Capacity,
		Description:  detail.GetDescription(),
		Participants: []string{},
		Host:         host,
		CreatorID:    detail.CreatorID,
		Creator:      creatorViewOf(detail.Creator),
		Date:         detail.DateString(),
		StartTime:    detail.StartTimeString(),
		EndTime:      detail.EndTimeString(),
		Location:     detail.GetLocation(),
		Mode:         detail.GetMode(),
	}
}

// PlaceholderStudyRoomView is the degraded-but-renderable fallback for a
// single room. Reads never fail the caller: the fault rides along in the
// error field of a 200 body.
func PlaceholderStudyRoomView(roomID int64, cause error) *StudyRoomView {
	return &StudyRoomView{
		RoomID:       roomID,
		ID:           fmt.Sprintf("room-%d", roomID),
		Name:         fmt.Sprintf("Room %d", roomID),
		Participants: []string{},
		Host:         "Unknown",
		Creator:      CreatorView{Username: "Unknown", Present: true},
		StartTime:    "00:00",
		EndTime:      "00:00",
		Error:        fmt.Sprintf("Error: %v", cause),
	}
}

// StudyRoomListItemView is the fetch-all shape. Unlike the single-room
// view, host here is the creator object and a missing date serializes as
// null rather than an empty string. Both quirks are part of the shipped
// front-end contract.
type StudyRoomListItemView struct {
	RoomID      int64       `json:"room_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Capacity    int         `json:"capacity"`
	CreatorID   int64       `json:"creator_id"`
	Creator     CreatorView `json:"creator"`
	Host        CreatorView `json:"host"`
	Date        *string     `json:"date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	Location    string      `json:"location"`
	Mode        string      `json:"mode"`
	Error       string      `json:"error,omitempty"`
}

// NewStudyRoomListItem builds the fetch-all view of a room
func NewStudyRoomListItem(detail *model.StudyRoomDetail) *StudyRoomListItemView {
	creator := creatorViewOf(detail.Creator)

	var date *string
	if s := detail.DateString(); s != "" {
		date = &s
	}

	return &StudyRoomListItemView{
		RoomID:      detail.RoomID,
		Name:        detail.Name,
		Description: detail.GetDescription(),
		Capacity:    detail.Capacity,
		CreatorID:   detail.CreatorID,
		Creator:     creator,
		Host:        creator,
		Date:        date,
		StartTime:   detail.StartTimeString(),
		EndTime:     detail.EndTimeString(),
		Location:    detail.GetLocation(),
		Mode:        detail.GetMode(),
	}
}

// PlaceholderStudyRoomListItem replaces a room that failed to serialize so
// one bad row cannot take down the whole listing.
func PlaceholderStudyRoomListItem(roomID int64, cause error) *StudyRoomListItemView {
	unknown := CreatorView{Username: "Unknown", Present: true}
	return &StudyRoomListItemView{
		RoomID:    roomID,
		Name:      fmt.Sprintf("Room %d", roomID),
		Creator:   unknown,
		Host:      unknown,
		StartTime: "00:00",
		EndTime:   "00:00",
		Error:     fmt.Sprintf("Error: %v", cause),
	}
}
