// Package httpx binds gin requests and renders service errors as HTTP responses.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tenant-accounts/backend/internal/platform/apperr"
)

var registerOnce sync.Once

// registerTagNames makes validator report JSON field names instead of Go field names.
func registerTagNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// BindJSON decodes and validates the request body into dst. On failure it writes a 400 response
// and returns false.
func BindJSON(c *gin.Context, dst any) bool {
	registerTagNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(verrs)})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
		return false
	}
	return true
}

// fieldErrors keys each message by its dotted JSON path without the root struct name
// (e.g. "organization.name").
func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out[field] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// Error writes the response for a service error. Unrecognized errors become 500 and are logged.
func Error(c *gin.Context, log *zap.Logger, err error) {
	if ve, ok := apperr.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials"})
	case errors.Is(err, apperr.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": text(err, "user with this email already exists.")}})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, detail(err, "Not found."))
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusBadRequest, detail(err, "Already exists."))
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": text(err, "Authentication credentials were not provided.")})
	default:
		if log == nil {
			log = zap.L()
		}
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

// detail renders a client message under "message"; errors without one fall back to a generic "detail".
func detail(err error, fallback string) gin.H {
	if msg, ok := apperr.ClientMessage(err); ok {
		return gin.H{"message": msg}
	}
	return gin.H{"detail": fallback}
}

func text(err error, fallback string) string {
	if msg, ok := apperr.ClientMessage(err); ok {
		return msg
	}
	return fallback
}
