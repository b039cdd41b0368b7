package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

const msgInternal = "Something went wrong, please try again"

// identityFrom returns the acting user placed on the context by the auth middleware
func identityFrom(c echo.Context) models.Identity {
	return middleware.IdentityFrom(c)
}

// bindAndValidate decodes the JSON body into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

// httpError maps service errors onto HTTP responses. Unknown errors are kept
// as the internal cause so the request logger records them.
func httpError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrOrganizerCannotRSVP):
		return echo.NewHTTPError(http.StatusForbidden, services.ErrOrganizerCannotRSVP.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, msgInternal).SetInternal(err)
}

// queryInt reads an integer query parameter, 0 when absent or malformed
func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

// uintParam reads a numeric path parameter (SQL row ids)
func uintParam(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(n), nil
}
