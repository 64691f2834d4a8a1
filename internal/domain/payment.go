package domain

// PaymentMethod values are the wire values the caixa backend stores.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "dinheiro"
	PaymentCredit PaymentMethod = "cartao_credito"
	PaymentDebit  PaymentMethod = "cartao_debito"
	PaymentPix    PaymentMethod = "pix"
)

// DefaultPaymentMethod is what a cleared draft starts with.
const DefaultPaymentMethod = PaymentCash

// PaymentMethods lists every accepted method in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCredit, PaymentDebit, PaymentPix}
}

// ParsePaymentMethod reports whether s names a known method.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(s)
	for _, known := range PaymentMethods() {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// IsCash reports whether the method takes a tendered amount.
func (m PaymentMethod) IsCash() bool {
	return m == PaymentCash
}

// Label is the operator-facing name of the method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Dinheiro"
	case PaymentCredit:
		return "Cartão de Crédito"
	case PaymentDebit:
		return "Cartão de Débito"
	case PaymentPix:
		return "PIX"
	default:
		return string(m)
	}
}
