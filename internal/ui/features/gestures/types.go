package gestures

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// tableSignals are the datastar signals a table section binds.
type tableSignals struct {
	Filter   string  `json:"filter"`
	PageSize flexInt `json:"pageSize"`
}

// flexInt accepts a JSON number or a numeric string; select elements bind
// their value as a string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}
