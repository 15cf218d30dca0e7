package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
)

// validate is the shared request validator. Struct tags on the request
// types drive it; failed fields are reported under their json names.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// RespondJSON is respondJSON for use by other packages' handlers.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	respondJSON(w, status, v)
}

// DecodeAndValidate decodes the request body into dst and runs the struct
// validator. Failures come back as EINVALID domain errors ready for
// ErrorResponse.
func DecodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("handler.decode", "Request body is not valid JSON: "+err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fieldMessage(fe)
			}
			return &domain.Error{
				Code:    domain.EINVALID,
				Message: "Request validation failed",
				Op:      "handler.validate",
				Err:     &domain.ValidationError{Op: "handler.validate", Fields: fields},
			}
		}
		return domain.Invalid("handler.validate", "Validation failed")
	}
	return nil
}

// fieldMessage renders a failed validation tag as a short human message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation rule " + strconv.Quote(fe.Tag())
	}
}
