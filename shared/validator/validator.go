// Package validator decodes request payloads and checks them with go-playground/validator.
// Every failure is returned as a failure.Validation carrying a readable message.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"condo/shared/constant"
	"condo/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const megabyte = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)

	rules := map[string]val.Func{
		"mimetypes":   hasMimetype,
		"maxfilesize": withinFileSize,
		"datekey":     isDateKey,
	}

	for tag, rule := range rules {
		if err := v.RegisterValidation(tag, rule); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// hasMimetype matches an upload's declared content type against a space separated list.
func hasMimetype(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), file.Header.Get(constant.RequestHeaderContentType))
}

// withinFileSize bounds an upload or a string payload to param megabytes.
func withinFileSize(field val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	var size int64

	switch v := field.Field().Interface().(type) {
	case multipart.FileHeader:
		size = v.Size
	case string:
		size = int64(len(v))
	}

	return float64(size) <= limit*megabyte
}

func isDateKey(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := time.Parse(constant.DateKeyFormat, value)

	return err == nil
}

func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return failure.Validation("request body is required")
		}

		return failure.Validation("failed to decode request body: " + err.Error())
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.Validation(message(err))
	}

	return nil
}

// ValidateVar checks a single value against a tag list such as "required,datekey".
func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.Validation(message(err))
	}

	return nil
}
