package adjust

import (
	"errors"
	"fmt"
	"strings"
)

// Range limits shared by every adjustment control.
const (
	MinValue = -1.0
	MaxValue = 1.0
)

var (
	// ErrUnknownParameter is returned for a parameter name other than
	// exposure, saturation, or vibrance.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrParameterRange is returned for a value outside [MinValue, MaxValue].
	ErrParameterRange = errors.New("parameter out of range")
)

// Name identifies one adjustment control.
type Name string

// Adjustment controls, in the order the engine applies them.
const (
	Exposure   Name = "exposure"
	Saturation Name = "saturation"
	Vibrance   Name = "vibrance"
)

// Names lists every control in application order.
var Names = []Name{Exposure, Saturation, Vibrance}

// ParseName resolves a control name, ignoring case and surrounding space.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	switch n {
	case Exposure, Saturation, Vibrance:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownParameter, s)
}

// Parameters is a point-in-time edit state. The zero value is the identity edit.
//
// Parameters is a value type: the engine receives a copy and never modifies it.
type Parameters struct {
	// Exposure in stops; each stop doubles (or halves) brightness.
	Exposure float64 `json:"exposure"`

	// Saturation scales HSV saturation proportionally; -1 fully desaturates.
	Saturation float64 `json:"saturation"`

	// Vibrance boosts mid-saturated pixels more than gray or saturated ones.
	Vibrance float64 `json:"vibrance"`
}

// IsZero reports whether every control is at its neutral position.
func (p Parameters) IsZero() bool {
	return p == Parameters{}
}

// Get returns the value of one control.
func (p Parameters) Get(name Name) float64 {
	switch name {
	case Exposure:
		return p.Exposure
	case Saturation:
		return p.Saturation
	case Vibrance:
		return p.Vibrance
	}
	return 0
}

// With returns a copy of p with one control replaced.
func (p Parameters) With(name Name, value float64) (Parameters, error) {
	if err := checkRange(name, value); err != nil {
		return p, err
	}
	switch name {
	case Exposure:
		p.Exposure = value
	case Saturation:
		p.Saturation = value
	case Vibrance:
		p.Vibrance = value
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownParameter, string(name))
	}
	return p, nil
}

// Validate checks every control against [MinValue, MaxValue].
func (p Parameters) Validate() error {
	for _, n := range Names {
		if err := checkRange(n, p.Get(n)); err != nil {
			return err
		}
	}
	return nil
}

// Readouts formats each control to two decimals, keyed by control name.
func (p Parameters) Readouts() map[string]string {
	out := make(map[string]string, len(Names))
	for _, n := range Names {
		out[string(n)] = fmt.Sprintf("%.2f", p.Get(n))
	}
	return out
}

// String implements fmt.Stringer.
func (p Parameters) String() string {
	return fmt.Sprintf("exposure=%.2f saturation=%.2f vibrance=%.2f", p.Exposure, p.Saturation, p.Vibrance)
}

// FromSlider maps an integer slider position in [-100,100] to a control value
// in [-1,1]. Positions outside the slider range are clamped.
func FromSlider(pos int) float64 {
	if pos < -100 {
		pos = -100
	}
	if pos > 100 {
		pos = 100
	}
	return float64(pos) / 100
}

func checkRange(name Name, value float64) error {
	if !(value >= MinValue && value <= MaxValue) {
		return fmt.Errorf("%w: %s=%v not in [%v,%v]", ErrParameterRange, name, value, MinValue, MaxValue)
	}
	return nil
}
