package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudinary-gateway/utils/apperrors"
)

// ErrorDetail is the inner error object of the envelope.
type ErrorDetail struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorResponse is the uniform error envelope; the embedded status mirrors
// the HTTP status code.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// HandleError maps an error to the envelope. Typed errors keep their name,
// message and status; anything else becomes a generic InternalError so the
// original error is never leaked to the client.
func HandleError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		abort(c, string(appErr.Name), appErr.Message, appErr.Status())
		return
	}
	abort(c, string(apperrors.NameInternal), "Internal Server Error", http.StatusInternalServerError)
}

// HandleValidationError reports a request binding failure.
func HandleValidationError(c *gin.Context, message string) {
	abort(c, string(apperrors.NameValidation), message, http.StatusBadRequest)
}

// HandleAuthError reports a missing or invalid credential.
func HandleAuthError(c *gin.Context, message string) {
	abort(c, string(apperrors.NameAuth), message, http.StatusUnauthorized)
}

func abort(c *gin.Context, name, message string, status int) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{
		Name:    name,
		Message: message,
		Status:  status,
	}})
}
