package spacedrep

import "fmt"

// ReviewKind identifies one checkpoint of a review schedule.
type ReviewKind int

const (
	OneDay ReviewKind = iota + 1
	OneWeek
)

// ReviewKinds lists every kind in surfacing order.
var ReviewKinds = []ReviewKind{OneDay, OneWeek}

func (k ReviewKind) String() string {
	switch k {
	case OneDay:
		return "oneDay"
	case OneWeek:
		return "oneWeek"
	}
	return fmt.Sprintf("ReviewKind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k ReviewKind) Valid() bool {
	return k == OneDay || k == OneWeek
}

// ParseReviewKind parses the persisted form of a review kind.
func ParseReviewKind(s string) (ReviewKind, error) {
	switch s {
	case "oneDay":
		return OneDay, nil
	case "oneWeek":
		return OneWeek, nil
	}
	return 0, fmt.Errorf("unknown review kind %q", s)
}

func (k ReviewKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal review kind: invalid value %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *ReviewKind) UnmarshalText(b []byte) error {
	parsed, err := ParseReviewKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
