package enum

// PaymentMethod is the settlement method chosen at checkout. The values are
// wire-level strings shared with the storefront client.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentBank PaymentMethod = "BANK"
	PaymentCard PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentBank, PaymentCard:
		return true
	}
	return false
}

// RequiresGateway reports whether the method settles through the card
// payment gateway redirect
func (m PaymentMethod) RequiresGateway() bool {
	return m == PaymentCard
}
