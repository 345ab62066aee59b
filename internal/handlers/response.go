package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
	"github.com/yukikurage/civicconnect-api/internal/services"
	"github.com/yukikurage/civicconnect-api/internal/utils"
)

// envelope is the body of every successful response.
type envelope struct {
	Success    bool                      `json:"success"`
	Data       interface{}               `json:"data,omitempty"`
	Message    string                    `json:"message,omitempty"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message})
}

func respondPage(c *gin.Context, data interface{}, pagination utils.PaginationResponse) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: &pagination})
}

// respondValidationError writes a 400 for a *services.ValidationError and
// reports whether err was one.
func respondValidationError(c *gin.Context, err error) bool {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	apierrors.BadRequestWithDetails(c, verr.Error(), gin.H{"field": verr.Field})
	return true
}

// parseID reads a positive numeric path parameter, answering 400 otherwise.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
