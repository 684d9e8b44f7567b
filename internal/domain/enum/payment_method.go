package enum

// PaymentMethod is one of the fixed settlement methods a bill can be
// split across. The strings are the wire values stored inside the
// payment_type snapshot, so they are display names, not slugs.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "Cash"
	PaymentMethodCard       PaymentMethod = "Card"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "Net Banking"
	PaymentMethodCheque     PaymentMethod = "Cheque"
	PaymentMethodCredit     PaymentMethod = "Credit"
	PaymentMethodWallet     PaymentMethod = "Wallet"
	PaymentMethodOther      PaymentMethod = "Other"
)

// PaymentMethods lists every accepted method, in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodCard,
		PaymentMethodUPI,
		PaymentMethodNetBanking,
		PaymentMethodCheque,
		PaymentMethodCredit,
		PaymentMethodWallet,
		PaymentMethodOther,
	}
}

// Valid reports whether m is one of the accepted methods.
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods() {
		if m == known {
			return true
		}
	}
	return false
}
