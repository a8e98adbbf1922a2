package helper

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"schoolku_backend/internals/helpers/apperror"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// nama field mengikuti tag json
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" {
				return fld.Name
			}
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(errors.Wrap(err, "register validator translations"))
	}
}

// Validator exposes the shared instance for custom rules.
func Validator() *validator.Validate {
	return validate
}

// FieldErrors turns validator output into the field→messages map.
func FieldErrors(ve validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fe.Translate(trans))
	}
	return out
}

// ValidateStruct returns an apperror.Validation, or nil.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return apperror.Validation(FieldErrors(ve))
	}
	return apperror.BadRequest("invalid request: %v", err)
}

// ParseBody decodes the request body into dst and validates it.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return ValidateStruct(dst)
}

// ParseQuery decodes query parameters into dst and validates it.
func ParseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return apperror.BadRequest("Invalid query parameters")
	}
	return ValidateStruct(dst)
}
