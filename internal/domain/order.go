package domain

// OrderDetails is the raw checkout form state as submitted by the Mini App.
type OrderDetails struct {
	LastName            string `json:"lastName"`
	FirstName           string `json:"firstName"`
	MiddleName          string `json:"middleName"`
	PhoneNumber         string `json:"phoneNumber"`
	Email               string `json:"email"`
	DeliveryDate        string `json:"deliveryDate"`
	DeliveryMethod      string `json:"deliveryMethod"`
	City                string `json:"city"`
	AddressLine         string `json:"addressLine"`
	CommentDelivery     string `json:"commentDelivery"`
	PickupAddress       string `json:"pickupAddress"`
	CommentPickup       string `json:"commentPickup"`
	PaymentMethod       string `json:"paymentMethod"`
	PaymentMethodPickup string `json:"paymentMethodPickup"`
}

// Delivery methods accepted by the checkout form.
const (
	DeliveryCourier = "courier"
	DeliveryPickup  = "pickup"
)

// DeliveryMethodLabels maps the wire value to its display name in the order
// summary sent to the bot.
var DeliveryMethodLabels = map[string]string{
	DeliveryCourier: "Доставка курьером",
	DeliveryPickup:  "Самовывоз",
}

// OrderItem is one cart line flattened for the order payload.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// SubmittedDetails is the order_details block of the payload. Field names
// follow the bot-side contract, not the form field names (phone, comment).
type SubmittedDetails struct {
	LastName       string `json:"lastName"`
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	DeliveryDate   string `json:"deliveryDate"`
	DeliveryMethod string `json:"deliveryMethod"`
	City           string `json:"city"`
	AddressLine    string `json:"addressLine"`
	Comment        string `json:"comment"`
	PickupAddress  string `json:"pickupAddress"`
	CommentPickup  string `json:"commentPickup"`
	PaymentMethod  string `json:"paymentMethod"`
}

// OrderPayload is handed to the host bridge for transport to the bot.
type OrderPayload struct {
	Action       string           `json:"action"`
	OrderDetails SubmittedDetails `json:"order_details"`
	CartItems    []OrderItem      `json:"cart_items"`
	TotalAmount  float64          `json:"total_amount"`
}

// ActionCheckoutOrder is the only action the bot accepts from the storefront.
const ActionCheckoutOrder = "checkout_order"
