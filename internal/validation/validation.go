package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var playbackIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,64}$`)

// AllowedVideoTypes lists the container types accepted for recorded uploads.
var AllowedVideoTypes = map[string]bool{
	"video/webm": true,
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Tell the validator to use the JSON tag as the “field name”
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("playbackid", func(fl validator.FieldLevel) bool {
		return playbackIDPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("videotype", func(fl validator.FieldLevel) bool {
		return AllowedVideoTypes[strings.ToLower(fl.Field().String())]
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors flattens validation errors into field → failed tag. It returns
// nil when err did not come from the validator.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fieldErr := range verrs {
		out[fieldErr.Field()] = fieldErr.Tag()
	}
	return out
}

func ErrorsToJson(validationErrs error) (string, error) {
	errsMap := FieldErrors(validationErrs)
	if errsMap == nil {
		return "", validationErrs
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
