package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/college360hub/hub-booking/internal/model"
)

// validate holds the request rules.  Errors are named after the json tag so
// they match the wire field.
var validate = newValidator()

// ranges backs the "must be between" message of min/max failures.
var ranges = map[string][2]int{
	"participants":    {model.MinParticipants, model.MaxParticipants},
	"tickets_donated": {model.MinTicketsDonated, model.MaxTicketsDonated},
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, fn := range map[string]validator.Func{
		"present":  present,
		"location": func(fl validator.FieldLevel) bool { return model.IsLocation(fl.Field().String()) },
		"timeslot": func(fl validator.FieldLevel) bool { return model.IsTimeSlot(fl.Field().String()) },
		"weekend":  weekend,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// present fails on blank strings and zero numbers; both count as missing.
func present(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.String {
		return strings.TrimSpace(f.String()) != ""
	}
	return !f.IsZero()
}

func weekend(fl validator.FieldLevel) bool {
	d, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil && model.IsWeekend(d)
}

// checkPresent reports the first missing field of req, ignoring domain rules.
func checkPresent(req any) error {
	errs, err := run(req)
	if err != nil {
		return err
	}
	return firstMissing(errs)
}

// check reports the first missing field, or failing that the first field
// breaking a domain rule.
func check(req any) error {
	errs, err := run(req)
	if err != nil || len(errs) == 0 {
		return err
	}
	if err := firstMissing(errs); err != nil {
		return err
	}
	fe := errs[0]
	return &ValidationError{Field: fe.Field(), Reason: reason(fe), Err: fe}
}

func firstMissing(errs validator.ValidationErrors) error {
	for _, fe := range errs {
		if fe.Tag() == "present" {
			return missing(fe.Field())
		}
	}
	return nil
}

func run(req any) (validator.ValidationErrors, error) {
	err := validate.Struct(req)
	if err == nil {
		return nil, nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, err
	}
	return errs, nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		r := ranges[fe.Field()]
		return fmt.Sprintf("must be between %d and %d", r[0], r[1])
	case "location":
		return "unknown location"
	case "timeslot":
		return "unknown time slot"
	case "datetime":
		return "must be YYYY-MM-DD"
	case "weekend":
		return "tours run on Saturdays and Sundays only"
	}
	return "failed " + fe.Tag()
}
