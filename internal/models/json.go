package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON backs the jsonb metadata column on transaction records. The
// ledger attaches free-form context (channel, device, settlement ids)
// that is stored and rendered but never interpreted here.
type JSON map[string]interface{}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported metadata type %T", value)
	}
}
