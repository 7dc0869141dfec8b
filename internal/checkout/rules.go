package checkout

import (
	"regexp"
	"time"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
)

// ElementKind tells the client how to surface an error for the field.
type ElementKind string

const (
	// KindInput points at a single input element.
	KindInput ElementKind = "input"
	// KindRadioGroup points at a radio group; the error decorates the
	// container and focus goes to the group's first radio.
	KindRadioGroup ElementKind = "radioGroup"
)

// Rule is one field validator. Rules are rebuilt for every validation pass
// from this static configuration plus the submitted form state; nothing is
// persisted.
type Rule struct {
	Field        string
	Label        string
	Element      string
	ErrorElement string
	Kind         ElementKind
	Condition    func() bool
	Validate     func(value string) bool
}

// datePlaceholder is the date picker's untouched placeholder text.
const datePlaceholder = "Выберите дату"

var (
	nameRe    = regexp.MustCompile(`^[\p{Latin}\p{Cyrillic}\s\-']+$`)
	phoneRe   = regexp.MustCompile(`^\+?[\d\s\-()]{7,20}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cityRe    = regexp.MustCompile(`^[\p{Latin}\p{Cyrillic}\s\-]+$`)
	addressRe = regexp.MustCompile(`^[\p{Latin}\p{Cyrillic}\p{N}\s\-.,/#№()]+$`)
	dateRe    = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

func validName(value string) bool {
	return matchTrimmed(nameRe, value)
}

func validPhone(value string) bool {
	return matchTrimmed(phoneRe, value)
}

func validEmail(value string) bool {
	return matchTrimmed(emailRe, value)
}

func validCity(value string) bool {
	return matchTrimmed(cityRe, value)
}

func validAddress(value string) bool {
	return matchTrimmed(addressRe, value)
}

func validDeliveryMethod(value string) bool {
	return value == domain.DeliveryCourier || value == domain.DeliveryPickup
}

func validSelection(value string) bool {
	return trimmed(value) != ""
}

// validDeliveryDate accepts strict DD.MM.YYYY naming a real calendar date
// equal to today or tomorrow, mirroring the date picker's two-day window.
func validDeliveryDate(value string, now time.Time) bool {
	value = trimmed(value)
	if value == "" || value == datePlaceholder {
		return false
	}

	match := dateRe.FindStringSubmatch(value)
	if match == nil {
		return false
	}

	day := atoi2(match[1])
	month := atoi2(match[2])
	year := atoi4(match[3])

	selected := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// time.Date normalizes overflow (32.01 -> 01.02), so round-trip the
	// components to reject non-calendar dates.
	if selected.Day() != day || selected.Month() != time.Month(month) || selected.Year() != year {
		return false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	return selected.Equal(today) || selected.Equal(tomorrow)
}

func matchTrimmed(re *regexp.Regexp, value string) bool {
	value = trimmed(value)
	return value != "" && re.MatchString(value)
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

func atoi4(s string) int {
	return atoi2(s[:2])*100 + atoi2(s[2:])
}

// rulesFor builds the fixed, ordered rule list for one validation pass. The
// order decides which failing field receives focus. Element and error ids are
// an explicit static mapping to the checkout markup.
func rulesFor(details domain.OrderDetails, now time.Time) []Rule {
	courier := func() bool { return details.DeliveryMethod == domain.DeliveryCourier }
	pickup := func() bool { return details.DeliveryMethod == domain.DeliveryPickup }

	return []Rule{
		{
			Field: "lastName", Label: "фамилию",
			Element: "last-name", ErrorElement: "last-name-error", Kind: KindInput,
			Validate: validName,
		},
		{
			Field: "firstName", Label: "имя",
			Element: "first-name", ErrorElement: "first-name-error", Kind: KindInput,
			Validate: validName,
		},
		{
			Field: "middleName", Label: "отчество",
			Element: "middle-name", ErrorElement: "middle-name-error", Kind: KindInput,
			Validate: validName,
		},
		{
			Field: "phoneNumber", Label: "номер телефона",
			Element: "phone-number", ErrorElement: "phone-number-error", Kind: KindInput,
			Validate: validPhone,
		},
		{
			Field: "email", Label: "Email",
			Element: "email", ErrorElement: "email-error", Kind: KindInput,
			Validate: validEmail,
		},
		{
			Field: "deliveryDate", Label: "дату доставки/самовывоза",
			Element: "delivery-date", ErrorElement: "delivery-date-error", Kind: KindInput,
			Validate: func(value string) bool { return validDeliveryDate(value, now) },
		},
		{
			Field: "deliveryMethod", Label: "способ получения",
			Element: "delivery-courier-radio", ErrorElement: "delivery-method-section", Kind: KindRadioGroup,
			Validate: validDeliveryMethod,
		},
		{
			Field: "city", Label: "город для доставки",
			Element: "city", ErrorElement: "city-error", Kind: KindInput,
			Condition: courier,
			Validate:  validCity,
		},
		{
			Field: "addressLine", Label: "адрес доставки",
			Element: "address-line", ErrorElement: "address-line-error", Kind: KindInput,
			Condition: courier,
			Validate:  validAddress,
		},
		{
			Field: "paymentMethod", Label: "способ оплаты",
			Element: "payment-cash-radio", ErrorElement: "payment-method-section", Kind: KindRadioGroup,
			Condition: courier,
			Validate:  validSelection,
		},
		{
			Field: "pickupAddress", Label: "адрес самовывоза",
			Element: "pickup_1", ErrorElement: "pickup-radio-group", Kind: KindRadioGroup,
			Condition: pickup,
			Validate:  validSelection,
		},
		{
			Field: "paymentMethodPickup", Label: "способ оплаты",
			Element: "payment-erip-radio-pickup", ErrorElement: "payment-method-section-pickup", Kind: KindRadioGroup,
			Condition: pickup,
			Validate:  validSelection,
		},
	}
}

// fieldValue resolves a rule's field name to the submitted form value.
func fieldValue(details domain.OrderDetails, field string) string {
	switch field {
	case "lastName":
		return details.LastName
	case "firstName":
		return details.FirstName
	case "middleName":
		return details.MiddleName
	case "phoneNumber":
		return details.PhoneNumber
	case "email":
		return details.Email
	case "deliveryDate":
		return details.DeliveryDate
	case "deliveryMethod":
		return details.DeliveryMethod
	case "city":
		return details.City
	case "addressLine":
		return details.AddressLine
	case "paymentMethod":
		return details.PaymentMethod
	case "pickupAddress":
		return details.PickupAddress
	case "paymentMethodPickup":
		return details.PaymentMethodPickup
	default:
		return ""
	}
}
