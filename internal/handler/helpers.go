package handler

import (
	"net/http"
	"reflect"
	"strconv"

	"minimart/internal/apierror"
	"minimart/internal/middleware"
	"minimart/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidID   = "Invalid id."
	msgInternal    = "Internal server error."
	msgInvalidJSON = "Invalid JSON: "
)

var validate = validator.New()

func init() {
	// decimal.Decimal is a struct; validator needs a number for gt/gte/required.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs the validator tags.
// On failure it writes the response and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(msgInvalidJSON+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses the :id path parameter.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New(msgInvalidID))
		return 0, false
	}
	return id, true
}

// respondError writes err using its Kind. A cancelled request gets no body:
// the client is gone and the error is only logged.
func respondError(c *gin.Context, err error) {
	logger := zerolog.Ctx(c.Request.Context())
	status := apierror.StatusFor(err)

	switch {
	case apierror.IsCancelled(err):
		logger.Debug().Str("path", c.FullPath()).Msg("request cancelled")
		c.AbortWithStatus(status)
	case apierror.KindOf(err) == apierror.KindUnknown:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(msgInternal))
	default:
		if status >= http.StatusInternalServerError {
			logger.Warn().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("backend failure")
		}
		c.AbortWithStatusJSON(status, apierror.New(err.Error()))
	}
}

// session returns the signed-in session. Routes using it sit behind
// RequireSession, so a nil result is a wiring bug.
func session(c *gin.Context) *model.Session {
	return middleware.GetSession(c)
}
