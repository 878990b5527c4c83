// Package validation checks a raw registration submission field by field,
// collecting one fixed failure phrase per bad field. Checks run in a fixed
// order and a failing field is blanked in the output, so downstream code can
// only learn about a bad field from the error, never from its value.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"registration-service/models"
)

// DefaultStates is the accepted region set: the 50 US states plus DC.
// Membership is exact-match; no case folding or trimming is applied.
var DefaultStates = []string{
	"AK", "AL", "AR", "AZ", "CA", "CO", "CT", "DC", "DE", "FL",
	"GA", "HI", "IA", "ID", "IL", "IN", "KS", "KY", "LA", "MA",
	"MD", "ME", "MI", "MN", "MO", "MS", "MT", "NC", "ND", "NE",
	"NH", "NJ", "NM", "NV", "NY", "OH", "OK", "OR", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VA", "VT", "WA", "WI", "WV",
	"WY",
}

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Failure phrases, one per field, surfaced verbatim to the caller.
const (
	msgFirstName = "Missing valid first name."
	msgLastName  = "Missing valid last name."
	msgEmail     = "Missing valid email."
	msgStreet    = "Missing valid street address."
	msgCity      = "Missing valid city."
	msgState     = "Missing valid state"
	msgZip       = "Missing valid zip code."
)

// Error reports the fields that failed validation, in check order.
type Error struct {
	Fields []string
}

// Error joins the per-field phrases with single spaces.
func (e *Error) Error() string {
	return strings.Join(e.Fields, " ")
}

// Validator validates registration submissions.
type Validator struct {
	validate *validator.Validate
	states   map[string]struct{}
}

// New returns a Validator accepting the default state set.
func New() *Validator {
	return NewWithStates(DefaultStates)
}

// NewWithStates returns a Validator accepting the given region codes.
func NewWithStates(states []string) *Validator {
	set := make(map[string]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return &Validator{
		validate: validator.New(),
		states:   set,
	}
}

// Validate checks req field by field and returns the cleaned registration.
// When any field fails, the returned Error lists every failure phrase in
// check order and the registration must not be charged.
func (v *Validator) Validate(req models.RegistrationRequest) (models.Registration, *Error) {
	var errs []string

	reg := models.Registration{
		TicketInfo: req.TicketInfo,
		Nonce:      req.Nonce,
	}

	// Phone, amount and quantity are passed through unvalidated.
	reg.PurchaserInfo.Phone = req.PurchaserInfo.Phone

	reg.PurchaserInfo.FirstName = v.check(req.PurchaserInfo.FirstName, "alpha", msgFirstName, &errs)
	reg.PurchaserInfo.LastName = v.check(req.PurchaserInfo.LastName, "alpha", msgLastName, &errs)
	reg.PurchaserInfo.Email = v.check(req.PurchaserInfo.Email, "email", msgEmail, &errs)
	reg.PurchaserInfo.Address.StreetAddress = v.check(req.PurchaserInfo.Address.StreetAddress, "printascii", msgStreet, &errs)
	reg.PurchaserInfo.Address.City = v.check(req.PurchaserInfo.Address.City, "alpha", msgCity, &errs)

	if _, ok := v.states[req.PurchaserInfo.Address.State]; ok {
		reg.PurchaserInfo.Address.State = req.PurchaserInfo.Address.State
	} else {
		errs = append(errs, msgState)
	}

	if zipPattern.MatchString(req.PurchaserInfo.Address.Zip) {
		reg.PurchaserInfo.Address.Zip = req.PurchaserInfo.Address.Zip
	} else {
		errs = append(errs, msgZip)
	}

	if len(errs) > 0 {
		return reg, &Error{Fields: errs}
	}
	return reg, nil
}

// check returns value when it is non-empty and satisfies the validator tag,
// otherwise appends the failure phrase and returns the empty string.
func (v *Validator) check(value, tag, phrase string, errs *[]string) string {
	if value != "" && v.validate.Var(value, tag) == nil {
		return value
	}
	*errs = append(*errs, phrase)
	return ""
}
