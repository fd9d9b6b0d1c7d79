package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate holds the settings and caches for validating request struct
// values.
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Decode reads the body of an HTTP request looking for a JSON document. The
// body is decoded into the provided value and, if the value implements
// validation tags, the document is checked against them.
func Decode(r *http.Request, val any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if err := validate.Struct(val); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		fields := make(map[string]string, len(verrors))
		for _, verror := range verrors {
			fields[verror.Field()] = verror.Tag()
		}

		return &FieldsError{Fields: fields}
	}

	return nil
}

// FieldsError is used to indicate one or more request fields failed
// validation.
type FieldsError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (fe *FieldsError) Error() string {
	return "data validation error"
}
