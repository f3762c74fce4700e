package v1

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/taskflow/internal/models"
)

func init() {
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		engine.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName makes validation errors name fields the way clients send them.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// bindJSON decodes and validates the request body into req. On failure the
// request is aborted and false is returned.
func (h *handlerImpl) bindJSON(c *gin.Context, req any) bool {
	return h.bindWith(c, req, binding.JSON)
}

func (h *handlerImpl) bindQuery(c *gin.Context, req any) bool {
	return h.bindWith(c, req, binding.Query)
}

func (h *handlerImpl) bindWith(c *gin.Context, req any, b binding.Binding) bool {
	err := c.ShouldBindWith(req, b)
	if err == nil {
		return true
	}

	h.logger.Debug().
		Err(err).
		Str("binding", b.Name()).
		Msg("failed to bind request")

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		h.abortWithError(c, err)
		return false
	}
	abort(c, newBadRequestError(errInvalidRequestBody.Error()))
	return false
}

// newFieldValidationError reports the first failed binding rule.
func newFieldValidationError(errs validator.ValidationErrors) *models.ValidationError {
	if len(errs) == 0 {
		return models.NewValidationError("", "is invalid")
	}

	fe := errs[0]
	return models.NewValidationError(fe.Field(), describeFieldError(fe))
}

func describeFieldError(fe validator.FieldError) string {
	unit := "characters"
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = "items"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		unit = ""
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		if unit == "" {
			return "must be at least " + fe.Param()
		}
		return fmt.Sprintf("must be at least %s %s", fe.Param(), unit)
	case "max", "lte":
		if unit == "" {
			return "must be at most " + fe.Param()
		}
		return fmt.Sprintf("must be at most %s %s", fe.Param(), unit)
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must match the layout " + fe.Param()
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}
