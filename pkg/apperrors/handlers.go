package apperrors

import (
	"log/slog"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

var debug atomic.Bool

// SetDebug включает вывод причин внутренних ошибок в ответе (только development)
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// HandleError рендерит ошибку в JSON. Не-AppError превращается в 500.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "server error",
			"code", appErr.Code,
			"path", c.Request.URL.Path,
			"cause", appErr.Unwrap(),
		)
		if debug.Load() && appErr.Err != nil {
			appErr = appErr.WithDetails(appErr.Err.Error())
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
