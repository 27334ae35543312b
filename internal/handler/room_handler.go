package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/api/internal/dto/request"
	"github.com/studyhub/api/internal/dto/response"
	"github.com/studyhub/api/internal/service"
)

// StudyRoomHandler serves the study room CRUD surface. Response bodies
// follow the original front-end contract: bare objects and arrays, write
// errors as {"message": ...}, and reads that never answer 5xx.
type StudyRoomHandler struct {
	roomService *service.StudyRoomService
}

func NewStudyRoomHandler(roomService *service.StudyRoomService) *StudyRoomHandler {
	return &StudyRoomHandler{
		roomService: roomService,
	}
}

// Create godoc
// @Summary Create a study room
// @Description Create a new study room booking
// @Tags study-rooms
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/study-rooms [post]
func (h *StudyRoomHandler) Create(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	parsed, verr := request.ParseCreateStudyRoom(data)
	if verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), parsed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Creation failed",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Study room created",
		"room_id": room.RoomID,
	})
}

// GetByID godoc
// @Summary Get a study room
// @Description Get one study room by ID. Serialization faults degrade to a
// placeholder payload with 200 rather than failing the client.
// @Tags study-rooms
// @Produce json
// @Success 200 {object} response.StudyRoomView
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/study-rooms/{id} [get]
func (h *StudyRoomHandler) GetByID(c *gin.Context) {
	id, ok := h.roomID(c)
	if !ok {
		return
	}

	read, err := h.roomService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return
	}

	if read.Degraded() {
		c.JSON(http.StatusOK, response.PlaceholderStudyRoomView(id, read.Advisory))
		return
	}

	c.JSON(http.StatusOK, response.NewStudyRoomView(read.Detail))
}

// List godoc
// @Summary List study rooms
// @Description List every study room. Always 200; broken records are
// replaced with placeholders instead of failing the listing.
// @Tags study-rooms
// @Produce json
// @Success 200 {array} response.StudyRoomListItemView
// @Router /api/v1/study-rooms [get]
func (h *StudyRoomHandler) List(c *gin.Context) {
	reads := h.roomService.List(c.Request.Context())

	items := make([]*response.StudyRoomListItemView, 0, len(reads))
	for _, read := range reads {
		if read.Degraded() {
			var roomID int64
			if read.Detail != nil {
				roomID = read.Detail.RoomID
			}
			items = append(items, response.PlaceholderStudyRoomListItem(roomID, read.Advisory))
			continue
		}
		items = append(items, response.NewStudyRoomListItem(read.Detail))
	}

	c.JSON(http.StatusOK, items)
}

// Update godoc
// @Summary Update a study room
// @Description Partially update a study room. Fields are staged and
// validated together before anything is written.
// @Tags study-rooms
// @Accept json
// @Produce json
// @Success 200 {object} response.StudyRoomView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/study-rooms/{id} [put]
func (h *StudyRoomHandler) Update(c *gin.Context) {
	id, ok := h.roomID(c)
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudyRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Update failed",
			"error":   err.Error(),
		})
		return
	}

	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		data = map[string]interface{}{}
	}

	draft, verr := request.ParseUpdateStudyRoom(data, room)
	if verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
		return
	}

	read, err := h.roomService.Update(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, service.ErrStudyRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Update failed",
			"error":   err.Error(),
		})
		return
	}

	if read.Degraded() {
		c.JSON(http.StatusOK, response.PlaceholderStudyRoomView(id, read.Advisory))
		return
	}

	c.JSON(http.StatusOK, response.NewStudyRoomView(read.Detail))
}

// Delete godoc
// @Summary Delete a study room
// @Description Hard-delete a study room
// @Tags study-rooms
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/study-rooms/{id} [delete]
func (h *StudyRoomHandler) Delete(c *gin.Context) {
	id, ok := h.roomID(c)
	if !ok {
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrStudyRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Delete failed",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// roomID parses the path ID. A non-numeric ID cannot match any record,
// so it answers the same 404 as a missing room.
func (h *StudyRoomHandler) roomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return 0, false
	}
	return id, true
}
