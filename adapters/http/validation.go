package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/devconnect/pkg/apperror"
)

// bindJSON decodes the body into req. Binding failures become field errors; a
// `msg` struct tag overrides the generated message for that field.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return apperror.NewValidation(fieldErrors(req, ve)...)
		}
		return apperror.NewInvalidInput("invalid JSON body", err)
	}
	return nil
}

func fieldErrors(req any, ve validator.ValidationErrors) []apperror.FieldError {
	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		param := fe.Field()
		msg := ""
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" {
				param = name
			}
			msg = sf.Tag.Get("msg")
		}
		if msg == "" {
			msg = defaultMessage(param, fe)
		}
		out = append(out, apperror.FieldError{Msg: msg, Param: param})
	}
	return out
}

func defaultMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("Validation failed on field '%s' for tag '%s'", field, fe.Tag())
	}
}
