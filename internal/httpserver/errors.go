package httpserver

import (
	"errors"
	"net/http"

	"retail-checkout/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrClosedState), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCurrencyConversion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error to its status. Unknown errors are logged
// and reported without detail.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorBody{Error: errorDetail{Code: status, Message: msg}})
}

func writeBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: errorDetail{Code: http.StatusBadRequest, Message: msg}})
}
