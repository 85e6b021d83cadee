package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/BillChill/billchill-backend/errors"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Handlers must not write a body themselves when they attach an error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ginErr := c.Errors.Last()
		err := ginErr.Err

		var appError *errors.AppError
		if stderrors.As(err, &appError) {
			statusCode := appError.GetHTTPStatus()
			if statusCode >= http.StatusInternalServerError {
				logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))
			} else {
				logger.GetLogger().Infow("Request rejected",
					"request_id", c.GetString(RequestIDKey),
					"path", c.Request.URL.Path,
					"status", statusCode,
					"error", appError.Message,
				)
			}
			c.JSON(statusCode, ErrorResponse{Error: appError.Message, Type: string(appError.Type)})
			return
		}

		if ginErr.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid request body",
				Type:  string(errors.ValidationError),
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		message := "Internal Server Error"
		if gin.IsDebugging() {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message, Type: string(errors.ServerError)})
	}
}
