package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"task_tracker/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// response is the envelope around every successful body.
type response struct {
	Success bool     `json:"success"`
	Data    any      `json:"data"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// errorResponse is the envelope around every failure.
type errorResponse struct {
	Success bool     `json:"success"`
	Status  int      `json:"status"`
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func init() {
	// report json names instead of Go field names in validation messages
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	}
}

func (h *Handler) ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, response{Success: true, Data: data, Message: message})
}

// fail translates err into the error envelope. Non-domain errors are logged
// and reported as a generic internal error.
func (h *Handler) fail(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	status := appErr.Code.HTTPStatus()
	if appErr.Code == apperrors.CodeInternal {
		if h.log != nil {
			h.log.Errorw("request_failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", c.GetString(ctxRequestIDKey),
				"err", err,
			)
		}
		appErr = apperrors.New(apperrors.CodeInternal, "Internal Server Error")
	}
	c.JSON(status, errorResponse{
		Success: false,
		Status:  status,
		Type:    appErr.Code.Type(),
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func (h *Handler) abort(c *gin.Context, err error) {
	c.Abort()
	h.fail(c, err)
}

// bindJSON binds the body into dst and answers 422 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, bindError(err, "body"))
		return false
	}
	return true
}

// bindQuery binds query parameters into dst and answers 422 on failure.
func (h *Handler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			h.fail(c, apperrors.Validation(apperrors.ValidationMessage,
				fmt.Sprintf("`%s` value is not a valid integer", queryKeyFor(c, numErr.Num))))
			return false
		}
		h.fail(c, bindError(err, "query"))
		return false
	}
	return true
}

// queryKeyFor names the query parameter whose value is raw. gin's form
// binding reports conversion failures without the field name.
func queryKeyFor(c *gin.Context, raw string) string {
	values := c.Request.URL.Query()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range values[k] {
			if v == raw {
				return k
			}
		}
	}
	return "query"
}

// bindError converts a binding failure into a validation error with one
// "`field` message" entry per problem.
func bindError(err error, location string) error {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("`%s` %s", fe.Field(), describe(fe)))
		}
		return apperrors.Validation(apperrors.ValidationMessage, fields...)
	case errors.As(err, &typeErr):
		return apperrors.Validation(apperrors.ValidationMessage, fmt.Sprintf("`%s` must be of type %s", typeErr.Field, typeErr.Type))
	case errors.As(err, &synErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.Validation(apperrors.ValidationMessage, fmt.Sprintf("`%s` is not valid JSON", location))
	default:
		return apperrors.Validation(apperrors.ValidationMessage, fmt.Sprintf("`%s` is invalid", location))
	}
}

func describe(fe validator.FieldError) string {
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Map, reflect.Array:
		unit = " items"
	}
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "excludes":
		return fmt.Sprintf("must not contain '%s'", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must have at most %s%s", fe.Param(), unit)
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
