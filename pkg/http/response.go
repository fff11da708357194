package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes data as-is with status.
func JSONResponse(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, data)
}

// SuccessResponse writes a 200 with data.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// JSONBlobResponse writes pre-encoded JSON with a 200.
func JSONBlobResponse(c echo.Context, b []byte) error {
	return c.JSONBlob(http.StatusOK, b)
}

// ErrorResponse writes {"error": message}.
func ErrorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorBody{Error: message})
}

// AppErrorResponse serves an *AppError with its status; anything else is a 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, appErr.Body())
	}
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong")
}
