package enum

import "encoding/json"

// UrgencyLevel classifies a receivable by how far past due it is
type UrgencyLevel int

const (
	UrgencyNormal   UrgencyLevel = 0
	UrgencyMedium   UrgencyLevel = 1
	UrgencyHigh     UrgencyLevel = 2
	UrgencyCritical UrgencyLevel = 3
)

var urgencyLevelNames = [...]string{"normal", "medium", "high", "critical"}

func (u UrgencyLevel) String() string {
	if u < 0 || int(u) >= len(urgencyLevelNames) {
		return "unknown"
	}
	return urgencyLevelNames[u]
}

func (u UrgencyLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *UrgencyLevel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	for i, name := range urgencyLevelNames {
		if name == str {
			*u = UrgencyLevel(i)
			return nil
		}
	}
	return nil
}

// UrgencyForDaysPastDue maps an aging in days onto an urgency bucket.
func UrgencyForDaysPastDue(days int) UrgencyLevel {
	switch {
	case days > 30:
		return UrgencyCritical
	case days > 14:
		return UrgencyHigh
	case days > 7:
		return UrgencyMedium
	default:
		return UrgencyNormal
	}
}
