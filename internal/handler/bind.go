package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/pkg/middleware"
	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules to gin's validator.
// Field errors are reported under their json names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return domain.IsValidSlug(fl.Field().String())
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "slug":
		return "must contain only lowercase letters, numbers and single hyphens"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	default:
		return "is invalid"
	}
}

func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = validationMessage(fe)
		}
		c.JSON(http.StatusBadRequest, response.ValidationFailed(details))
		return
	}
	c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// pathID returns the :id segment or writes 400 when it is not a UUID
func pathID(c *gin.Context) (string, bool) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		writeBindError(c, err)
		return "", false
	}
	return param.ID, true
}

// principal returns the authenticated user id or writes 401
func principal(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return "", false
	}
	return userID, true
}
