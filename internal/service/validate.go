package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"inventory-service/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags of s and reports the first failure
// as a MalformedRequestError named by its JSON path
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Malformed("", err.Error())
	}

	fe := verrs[0]
	return errs.Malformed(fieldPath(fe), describe(fe))
}

// fieldPath drops the struct name from the validator namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// requireAmount checks a money field is present, not negative and has at
// most two decimal places
func requireAmount(field string, d *decimal.Decimal) error {
	if d == nil {
		return errs.Malformed(field, "is required")
	}
	return checkAmount(field, *d)
}

// optionalAmount returns zero for a missing field and otherwise applies the
// requireAmount checks
func optionalAmount(field string, d *decimal.Decimal) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, nil
	}
	if err := checkAmount(field, *d); err != nil {
		return decimal.Zero, err
	}
	return *d, nil
}

func checkAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return errs.Malformed(field, "must not be negative")
	}
	if !d.Equal(d.Round(2)) {
		return errs.Malformed(field, "must have at most 2 decimal places")
	}
	return nil
}

// sameCents compares two amounts at two decimal places
func sameCents(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}
