package types

import "fmt"

// Signal is the desired position for a bar: flat or long.
type Signal int8

const (
	SignalFlat Signal = 0
	SignalLong Signal = 1
)

func (s Signal) Valid() bool {
	return s == SignalFlat || s == SignalLong
}

func (s Signal) String() string {
	switch s {
	case SignalFlat:
		return "FLAT"
	case SignalLong:
		return "LONG"
	default:
		return fmt.Sprintf("Signal(%d)", int8(s))
	}
}
