package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"supportdesk/models"
	"supportdesk/speech"
	"supportdesk/storage"
)

var fieldNamesOnce sync.Once

// registerJSONFieldNames makes validation errors report JSON field names.
func registerJSONFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// fail maps err onto the API error taxonomy. fallback is the message used
// for internal failures, which are logged but not echoed to the client.
func fail(c *gin.Context, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: notFound})
	case errors.Is(err, speech.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: "Transcription is not configured"})
	case errors.Is(err, speech.ErrTranscriptionFailed), errors.Is(err, speech.ErrTokenFailed):
		log.Printf("Upstream failure on %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: fallback})
	default:
		log.Printf("Internal failure on %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
	}
}

// invalid writes a 400 listing every violated field.
func invalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Message: "Invalid data",
		Errors:  fieldErrors(err),
	})
}

func fieldErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]models.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, models.FieldError{Field: fieldPath(fe), Message: describe(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return []models.FieldError{{Message: "request body must be " + jsonKind(typeErr.Type)}}
		}
		return []models.FieldError{{Field: typeErr.Field, Message: "must be " + jsonKind(typeErr.Type)}}
	}
	if errors.Is(err, io.EOF) {
		return []models.FieldError{{Message: "request body is empty"}}
	}
	return []models.FieldError{{Message: "request body is not valid JSON"}}
}

// fieldPath drops the leading struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "base64":
		return "must be base64 encoded"
	}
	return "is invalid"
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	}
	return "an object"
}
