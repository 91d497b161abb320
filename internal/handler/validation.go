package handler

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"join/internal/model"
)

// RegisterValidators adds the task rules used in binding tags and reports
// fields by their JSON names.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rules := map[string]validator.Func{
		"taskstatus": func(fl validator.FieldLevel) bool {
			return model.Status(fl.Field().String()).Valid()
		},
		"taskpriority": func(fl validator.FieldLevel) bool {
			return model.Priority(fl.Field().String()).Valid()
		},
		"taskcategory": func(fl validator.FieldLevel) bool {
			return model.Category(fl.Field().String()).Valid()
		},
		"isodate": func(fl validator.FieldLevel) bool {
			_, err := time.Parse(model.DateLayout, fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
