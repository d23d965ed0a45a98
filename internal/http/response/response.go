package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/converse-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps an apierr-wrapped error onto the envelope, falling
// back to 500/internal_error for plain errors.
func RespondAppError(c *gin.Context, err error) {
	code := apierr.Code(err)
	if code == "" {
		code = "internal_error"
	}
	RespondError(c, apierr.Status(err), code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
