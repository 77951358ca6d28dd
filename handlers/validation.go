package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validationMessage turns the first validator failure into a client message.
func validationMessage(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		for _, vErr := range vErrs {
			switch vErr.Tag() {
			case "required":
				return vErr.Field() + " value missing"
			case "min", "gte":
				return vErr.Field() + " value is less than " + vErr.Param()
			case "max", "lte":
				return vErr.Field() + " value is greater than " + vErr.Param()
			case "email":
				return vErr.Field() + " is not a valid email"
			case "oneof":
				return vErr.Field() + " must be one of: " + vErr.Param()
			}
		}
	}
	return http.StatusText(http.StatusBadRequest)
}
