package billing

import (
	"encoding/json"
	"strings"
)

// The payment_type column round-trips this exact record shape. The key
// casing is a wire contract shared with deployed clients and stored
// historical rows; do not rename.
type paymentSplitRecord struct {
	PaymentType string  `json:"PAYMENT_TYPE"`
	Amount      float64 `json:"AMOUNT"`
}

// EncodePaymentSplits renders the split list as the canonical JSON
// array stored in a bill's payment_type field.
func EncodePaymentSplits(splits []PaymentSplit) (string, error) {
	records := make([]paymentSplitRecord, 0, len(splits))
	for _, s := range splits {
		records = append(records, paymentSplitRecord{PaymentType: s.Method, Amount: s.Amount})
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodePaymentSplits parses a stored payment_type value. Two shapes
// exist in the wild:
//
//   - the canonical JSON array written by EncodePaymentSplits
//   - a legacy bare method string ("Cash") from rows predating split
//     payments, which settles the whole bill in one method
//
// Decoding never fails: malformed input falls back to the legacy
// interpretation with billTotal as the single split's amount, so old
// bills always hydrate.
func DecodePaymentSplits(raw string, billTotal float64) []PaymentSplit {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var records []paymentSplitRecord
		if err := json.Unmarshal([]byte(raw), &records); err == nil {
			splits := make([]PaymentSplit, 0, len(records))
			for _, r := range records {
				splits = append(splits, PaymentSplit{Method: r.PaymentType, Amount: r.Amount})
			}
			return splits
		}
	}

	return []PaymentSplit{{Method: raw, Amount: billTotal}}
}
