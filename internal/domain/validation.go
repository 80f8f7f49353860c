package domain

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"reflect"
	"strings"
)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("notblank", validators.NotBlank)

	// report fields by their json names so they line up with the form descriptors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validation{validator: v}
}

// ValidationError ties a failed rule to the field that broke it
type ValidationError struct {
	Field string
	Tag   string
	Err   error
}

// Error implements the error interface
func (v ValidationError) Error() string {
	return v.Err.Error()
}

func (v ValidationError) Unwrap() error {
	return v.Err
}

// ValidationErrors is a slice of ValidationError, in field order
type ValidationErrors []ValidationError

// First returns the first failure or nil
func (ve ValidationErrors) First() error {
	if len(ve) == 0 {
		return nil
	}
	return ve[0]
}

// Validate checks a candidate item against its struct tags
func (v *Validation) Validate(item *NewItem) ValidationErrors {
	var errs ValidationErrors

	err := v.validator.Struct(item)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "item", Tag: "struct", Err: err}}
	}

	for _, fe := range validationErrors {
		errs = append(errs, ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Err:   fieldError(fe.Field()),
		})
	}
	return errs
}

// ValidateField applies the descriptor rules to a single normalized value
func (v *Validation) ValidateField(desc FieldDescriptor, value interface{}) error {
	err := v.validator.Var(value, desc.Rules)
	if err == nil {
		return nil
	}

	tag := desc.Rules
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		tag = fieldErrs[0].Tag()
	}
	return ValidationError{Field: desc.Name, Tag: tag, Err: desc.Err}
}

func fieldError(name string) error {
	for _, f := range Fields {
		if f.Name == name {
			return f.Err
		}
	}
	return fmt.Errorf("invalid %s", name)
}
