package handlers

import (
	"errors"
	"net/http"

	"taskify/internal/models"
	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Envelope is the wrapper every API response uses. Popup carries a message
// the UI should surface as a toast; Error carries the failure detail.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Popup   *string     `json:"popup"`
	Error   *string     `json:"error"`
}

// PageData nests paginated items inside the envelope's data field.
type PageData struct {
	Items      interface{}         `json:"items"`
	Pagination services.Pagination `json:"pagination"`
}

func respond(c *gin.Context, status int, data interface{}, popup string) {
	env := Envelope{Success: true, Data: data}
	if popup != "" {
		env.Popup = &popup
	}
	c.JSON(status, env)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: &message})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.GetString("user_id")
	id, err := uuid.FromString(idStr)
	if err != nil || id == uuid.Nil {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, false
	}
	return id, true
}

var validationErrors = []error{
	models.ErrEmptyTitle,
	models.ErrTitleTooLong,
	models.ErrDescriptionTooLong,
	models.ErrTooManyTags,
	models.ErrDuplicateTag,
	models.ErrUnknownTag,
	models.ErrInvalidStatus,
	models.ErrInvalidPriority,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleServiceError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, notFoundMessage)
	case isValidationError(err):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "failed to process request")
	}
}
