package validators

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/ai"
)

var hhmmPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var petTypes = map[string]bool{
	"Dog":    true,
	"Cat":    true,
	"Bird":   true,
	"Rabbit": true,
	"All":    true,
}

// CustomValidator adapts go-playground/validator to echo.Validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the shared validator with the PetConnect tags registered
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pettype", func(fl validator.FieldLevel) bool {
		return petTypes[fl.Field().String()]
	})
	_ = v.RegisterValidation("datauri_image", func(fl validator.FieldLevel) bool {
		return IsImageDataURI(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Struct validates without the HTTP wrapping, for callers outside a request
func (cv *CustomValidator) Struct(i interface{}) error {
	return cv.validator.Struct(i)
}

// IsImageDataURI reports whether s is an image data URI the AI flows would accept
func IsImageDataURI(s string) bool {
	_, err := ai.ParseDataURI(s)
	return err == nil
}
