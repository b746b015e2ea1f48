package checkout

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCOD  PaymentMethod = "cod"
)

// RequiresConfirmation reports whether the method needs the payment-intent
// and processor-confirmation legs. Pay-on-delivery completes at order
// creation.
func (m PaymentMethod) RequiresConfirmation() bool {
	return m == PaymentMethodCard
}

type IntentStatus string

const (
	IntentStatusRequiresConfirmation IntentStatus = "REQUIRES_CONFIRMATION"
	IntentStatusSucceeded            IntentStatus = "SUCCEEDED"
	IntentStatusFailed               IntentStatus = "FAILED"
)

// PaymentIntent is consumed within one checkout attempt and never persisted.
type PaymentIntent struct {
	ClientSecret string
	Status       IntentStatus
}

// Card carries the instrument details handed to the external processor.
// It never touches durable storage.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}
