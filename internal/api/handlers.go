package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/matching"
)

const (
	errInvalidRequest = "Invalid request"
	errProcessing     = "Failed to process request"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) match(c *gin.Context) {
	var req matching.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Info("rejecting request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errInvalidRequest, Details: details(err)})
		return
	}

	result, err := s.matcher.Match(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("talent matching failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errProcessing})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// details turns a binding error into messages safe to return to the caller.
func details(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldMessage(fe))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)}
	}

	return []string{"request body must be a valid JSON object"}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
