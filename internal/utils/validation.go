package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var langCodeRE = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z]{2,4})?$`)

// ValidLanguageList accepts "de" or "EN, fr ,PT-BR".
func ValidLanguageList(list string) bool {
	seen := false
	for _, part := range strings.Split(list, ",") {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		if !langCodeRE.MatchString(code) {
			return false
		}
		seen = true
	}
	return seen
}

func langCodes(fl validator.FieldLevel) bool {
	return ValidLanguageList(fl.Field().String())
}

// RegisterValidators adds the custom binding tags used by request forms.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("langcodes", langCodes)
}
