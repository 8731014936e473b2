// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/fixedpoint"
)

var (
	// addressRegex matches a 0x-prefixed 20-byte hex address.
	addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

	// integerRegex matches a non-negative base-10 integer (token amounts in
	// their smallest unit).
	integerRegex = regexp.MustCompile(`^[0-9]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// Address validates a 0x-prefixed hex account or token address.
var Address = validation.NewStringRuleWithError(
	func(s string) bool {
		return addressRegex.MatchString(s)
	},
	validation.NewError("validation_address_format", "must be a 0x-prefixed 20-byte hex address"),
)

// Amount validates a non-negative base-10 integer amount string.
var Amount = validation.NewStringRuleWithError(
	func(s string) bool {
		return integerRegex.MatchString(s)
	},
	validation.NewError("validation_amount_format", "must be a non-negative integer"),
)

// Fraction validates a non-negative decimal fraction string with at most 18
// fractional digits (e.g. "0.01"). Range bounds such as "at most 1.0" are
// enforced by the action's own policy setters, not here.
var Fraction = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := fixedpoint.ParseDecimal(s)
		return err == nil
	},
	validation.NewError("validation_fraction_format", "must be a decimal fraction with at most 18 decimal places"),
)
