package tags

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of validating a single tag.
type Status int

const (
	Valid Status = iota
	Warning
	Error
	Special
)

// String returns the lower-case wire name of the status.
func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Special:
		return "special"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Weight orders statuses by severity. Higher sorts first.
func (s Status) Weight() int {
	switch s {
	case Error:
		return 4
	case Warning:
		return 3
	case Special:
		return 2
	default:
		return 1
	}
}

// ParseStatus is the inverse of String.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "valid":
		return Valid, nil
	case "warning":
		return Warning, nil
	case "error":
		return Error, nil
	case "special":
		return Special, nil
	}
	return Valid, fmt.Errorf("unknown tag status %q", v)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
