package form

import (
	"errors"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

// ValidateStruct works like validation.ValidateStruct but reports field
// failures as a *gerr.ValidationError keyed by the json field name.
func ValidateStruct(structPtr interface{}, rules ...*validation.FieldRules) error {
	err := validation.ValidateStruct(structPtr, rules...)
	if err == nil {
		return nil
	}

	var ie validation.InternalError
	if errors.As(err, &ie) {
		return ie
	}

	var ve validation.Errors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for key, value := range ve {
		if value == nil {
			continue
		}
		fields[key] = formatErrMsg(value.Error())
	}
	return &gerr.ValidationError{Fields: fields}
}

func formatErrMsg(s string) string {
	return ucfirst(strings.Trim(s, " .")) + "."
}

func ucfirst(str string) string {
	for i, v := range str {
		return string(unicode.ToUpper(v)) + str[i+len(string(v)):]
	}
	return ""
}
