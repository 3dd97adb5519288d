package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leettrack-backend/internal/platform/apierr"
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
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a service error through apierr and writes it.
func RespondServiceError(c *gin.Context, err error) {
	ae := apierr.FromService(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", nil)
	}
	_ = c.Error(err)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
