package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
	Rate     float64 `json:"rate"`
	Total    float64 `json:"total"`
}

// ReceiptPayment is one settlement line (method + amount) on a receipt.
type ReceiptPayment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// Receipt is a value object representing a printable thermal receipt.
// It is not a database entity: it is composed from a stored bill at
// print time.
type Receipt struct {
	Header        ReceiptHeader    `json:"header"`
	BillNo        string           `json:"bill_no"`
	Date          string           `json:"date"`
	Cashier       string           `json:"cashier,omitempty"`
	Customer      string           `json:"customer,omitempty"`
	CustomerGSTIN string           `json:"customer_gstin,omitempty"`
	TaxInvoice    bool             `json:"tax_invoice"`
	Items         []ReceiptItem    `json:"items"`
	Subtotal      float64          `json:"subtotal"`
	Discount      float64          `json:"discount"`
	GSTTotal      float64          `json:"gst_total"`
	Total         float64          `json:"total"`
	Savings       float64          `json:"savings"`
	Payments      []ReceiptPayment `json:"payments"`
	Footer        string           `json:"footer,omitempty"`
}
