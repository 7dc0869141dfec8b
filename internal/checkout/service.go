package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/bridge"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/cart"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/profile"
)

// MinCourierOrder is the minimum cart total for courier delivery.
var MinCourierOrder = decimal.RequireFromString("70.00")

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// ValidationError reports the per-field failures of a submit attempt.
// Resubmission is always possible.
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order form invalid: %d field(s)", len(e.Result.Errors))
}

// DisabledProductsError blocks checkout while the cart holds lines whose
// product left the catalog; the user must remove them first.
type DisabledProductsError struct {
	Products []domain.CartEntry
}

func (e *DisabledProductsError) Error() string {
	return fmt.Sprintf("cart contains %d unavailable product(s)", len(e.Products))
}

// BelowMinimumError blocks courier orders under the minimum total.
type BelowMinimumError struct {
	Minimum decimal.Decimal
	Total   decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("courier order total %s is below the minimum %s", e.Total, e.Minimum)
}

// Service runs the full submit pass: field validation, business rules,
// payload construction, publication, profile capture and cart reset.
type Service struct {
	cart      *cart.Manager
	profile   *profile.Manager
	validator *Validator
	publisher bridge.Publisher
}

func NewService(c *cart.Manager, p *profile.Manager, v *Validator, pub bridge.Publisher) *Service {
	return &Service{cart: c, profile: p, validator: v, publisher: pub}
}

// Submit validates the form and, when everything passes, publishes the order,
// saves the customer profile for the next checkout and clears the cart. The
// cart is left intact on any failure.
func (s *Service) Submit(ctx context.Context, details domain.OrderDetails) (*domain.OrderPayload, error) {
	if result := s.validator.Validate(details); !result.Valid {
		return nil, &ValidationError{Result: result}
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if disabled := s.cart.Disabled(); len(disabled) > 0 {
		return nil, &DisabledProductsError{Products: disabled}
	}

	total := s.cart.TotalPrice()
	if details.DeliveryMethod == domain.DeliveryCourier && total.LessThan(MinCourierOrder) {
		return nil, &BelowMinimumError{Minimum: MinCourierOrder, Total: total}
	}

	payload := BuildPayload(details, items, total)

	if err := s.publisher.Publish(ctx, uuid.NewString(), payload); err != nil {
		return nil, fmt.Errorf("failed to publish order: %w", err)
	}

	if !s.profile.Save(ctx, profileFields(details)) {
		log.Printf("no customer data saved for prepopulation")
	}

	s.cart.Clear(ctx)
	return &payload, nil
}

// BuildPayload flattens the cart and form state into the bot-side contract.
// The payment method is taken from whichever radio group matches the chosen
// delivery method.
func BuildPayload(details domain.OrderDetails, items domain.Cart, total decimal.Decimal) domain.OrderPayload {
	paymentMethod := ""
	switch details.DeliveryMethod {
	case domain.DeliveryCourier:
		paymentMethod = details.PaymentMethod
	case domain.DeliveryPickup:
		paymentMethod = details.PaymentMethodPickup
	}

	cartItems := make([]domain.OrderItem, 0, len(items))
	for _, entry := range items {
		cartItems = append(cartItems, domain.OrderItem{
			ID:       entry.ID,
			Name:     entry.Name,
			Quantity: entry.Quantity,
			Price:    entry.Price,
		})
	}
	sort.Slice(cartItems, func(i, j int) bool { return cartItems[i].ID < cartItems[j].ID })

	return domain.OrderPayload{
		Action: domain.ActionCheckoutOrder,
		OrderDetails: domain.SubmittedDetails{
			LastName:       details.LastName,
			FirstName:      details.FirstName,
			MiddleName:     details.MiddleName,
			Phone:          details.PhoneNumber,
			Email:          details.Email,
			DeliveryDate:   details.DeliveryDate,
			DeliveryMethod: details.DeliveryMethod,
			City:           details.City,
			AddressLine:    details.AddressLine,
			Comment:        details.CommentDelivery,
			PickupAddress:  details.PickupAddress,
			CommentPickup:  details.CommentPickup,
			PaymentMethod:  paymentMethod,
		},
		CartItems:   cartItems,
		TotalAmount: total.Round(2).InexactFloat64(),
	}
}

func profileFields(details domain.OrderDetails) map[string]string {
	return map[string]string{
		"firstName":   details.FirstName,
		"lastName":    details.LastName,
		"middleName":  details.MiddleName,
		"phoneNumber": details.PhoneNumber,
		"email":       details.Email,
		"city":        details.City,
		"addressLine": details.AddressLine,
	}
}
