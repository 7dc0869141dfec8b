// Package checkout validates the order form as a single atomic pass, applies
// the submit-time business rules and builds the order payload for the bot
// bridge.
package checkout

import (
	"strings"
	"time"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
)

// FieldError describes one failed field: what failed, the user-facing label,
// and where the UI should decorate and focus. Radio groups resolve to their
// container since no single input represents the group.
type FieldError struct {
	Field        string      `json:"field"`
	Label        string      `json:"label"`
	Element      string      `json:"element"`
	ErrorElement string      `json:"errorElement"`
	Kind         ElementKind `json:"kind"`
}

// Result is the outcome of a validation pass. Errors keeps the fixed
// validation order; the first entry is the focus target.
type Result struct {
	Valid  bool         `json:"isValid"`
	Errors []FieldError `json:"errors"`
}

// Validator runs the form validation pass. The clock is injectable because
// the delivery-date window is relative to today.
type Validator struct {
	now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// WithClock overrides the time source, for tests.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate walks every applicable rule in order and accumulates all failures
// instead of stopping at the first, so the UI can highlight every invalid
// field at once.
func (v *Validator) Validate(details domain.OrderDetails) Result {
	var errors []FieldError

	for _, rule := range rulesFor(details, v.now()) {
		if rule.Condition != nil && !rule.Condition() {
			continue
		}

		if rule.Validate(fieldValue(details, rule.Field)) {
			continue
		}

		errors = append(errors, FieldError{
			Field:        rule.Field,
			Label:        rule.Label,
			Element:      rule.Element,
			ErrorElement: rule.ErrorElement,
			Kind:         rule.Kind,
		})
	}

	return Result{Valid: len(errors) == 0, Errors: errors}
}

func trimmed(value string) string {
	return strings.TrimSpace(value)
}
