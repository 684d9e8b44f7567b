package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BillStatus represents the lifecycle state of a committed bill
type BillStatus int

const (
	BillStatusActive    BillStatus = 0
	BillStatusPaid      BillStatus = 1
	BillStatusCancelled BillStatus = 2
)

func (s BillStatus) String() string {
	names := [...]string{"Active", "Paid", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Active"
	}
	return names[s]
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BillStatus(i)
		return nil
	}
	switch str {
	case "Active":
		*s = BillStatusActive
	case "Paid":
		*s = BillStatusPaid
	case "Cancelled":
		*s = BillStatusCancelled
	}
	return nil
}

func (s BillStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BillStatus(v)
	case int:
		*s = BillStatus(v)
	}
	return nil
}
