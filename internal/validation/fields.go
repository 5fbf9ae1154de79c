package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	fieldValidator     *validator.Validate
	fieldValidatorOnce sync.Once
)

// structValidator returns the shared validator instance.
func structValidator() *validator.Validate {
	fieldValidatorOnce.Do(func() {
		fieldValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return fieldValidator
}

// fieldRules maps a failing "<field>.<tag>" to the violation reported for it.
var fieldRules = map[string]error{
	"Date.required":      ErrMissingDate,
	"Date.datetime":      ErrInvalidDate,
	"PaidByID.required":  ErrMissingPayer,
	"ParticipantIDs.min": ErrNoParticipants,
	"MemberID.required":  ErrMissingMember,
	"Amount.gt":          ErrInvalidAmount,
}

// fieldErrors checks the validator tags of input and returns the violation
// of every failing field, keyed by struct field name.
func fieldErrors(input any) (map[string]error, error) {
	err := structValidator().Struct(input)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("failed to validate %T: %w", input, err)
	}

	failed := make(map[string]error, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule, ok := fieldRules[fe.StructField()+"."+fe.Tag()]
		if !ok {
			rule = fmt.Errorf("invalid %s", fe.Field())
		}
		failed[fe.StructField()] = rule
	}
	return failed, nil
}

// firstFailure returns the violation of the first failing field in order.
func firstFailure(failed map[string]error, fields ...string) error {
	for _, field := range fields {
		if err := failed[field]; err != nil {
			return err
		}
	}
	return nil
}
