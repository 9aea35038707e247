package dosing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidWeight is returned when a weight-scaled dose is requested for a
// weight that is not a finite, strictly positive number.
var ErrInvalidWeight = errors.New("weight must be greater than zero")

// Spec is a declarative per-kilogram dosing rule.
type Spec struct {
	PerKg float64  `json:"perKg"`
	Unit  string   `json:"unit"`
	Per   string   `json:"per,omitempty"` // rate interval, e.g. "hr"
	Max   *float64 `json:"max,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Fixed bool     `json:"fixed,omitempty"`
}

// Dose is a Spec applied to one patient's weight.
type Dose struct {
	Total   float64 `json:"total"`
	Text    string  `json:"text"`
	Capped  bool    `json:"capped"`
	Floored bool    `json:"floored"`
	Spec    Spec    `json:"spec"`
}

// PerKg builds a weight-scaled spec with no clamps.
func PerKg(rate float64, unit string) Spec {
	return Spec{PerKg: rate, Unit: unit}
}

// Fixed builds a spec reported verbatim regardless of weight.
func Fixed(amount float64, unit string) Spec {
	return Spec{PerKg: amount, Unit: unit, Fixed: true}
}

// WithMax caps the computed total at v.
func (s Spec) WithMax(v float64) Spec {
	s.Max = &v
	return s
}

// WithMin raises the computed total to at least v.
func (s Spec) WithMin(v float64) Spec {
	s.Min = &v
	return s
}

// Hourly marks s as an infusion rate per hour.
func (s Spec) Hourly() Spec {
	s.Per = "hr"
	return s
}

// Compute applies s to weightKg. The ceiling is checked before the floor, so
// a spec whose clamps overlap always honours the maximum.
func Compute(s Spec, weightKg float64) (Dose, error) {
	if s.Fixed {
		return Dose{
			Total: s.PerKg,
			Text:  formatAmount(s.PerKg) + " " + s.unit(),
			Spec:  s,
		}, nil
	}

	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return Dose{}, fmt.Errorf("compute dose for %v kg: %w", weightKg, ErrInvalidWeight)
	}

	d := Dose{Total: s.PerKg * weightKg, Spec: s}
	switch {
	case s.Max != nil && d.Total > *s.Max:
		d.Total = *s.Max
		d.Capped = true
	case s.Min != nil && d.Total < *s.Min:
		d.Total = *s.Min
		d.Floored = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%.1f %s (%s %s)", d.Total, s.unit(), formatAmount(s.PerKg), s.rateUnit())
	if d.Capped {
		fmt.Fprintf(&b, " - capped at max %s %s", formatAmount(*s.Max), s.unit())
	}
	if d.Floored {
		fmt.Fprintf(&b, " - raised to min %s %s", formatAmount(*s.Min), s.unit())
	}
	d.Text = b.String()

	return d, nil
}

func (s Spec) unit() string {
	if s.Per == "" {
		return s.Unit
	}
	return s.Unit + "/" + s.Per
}

func (s Spec) rateUnit() string {
	if s.Per == "" {
		return s.Unit + "/kg"
	}
	return s.Unit + "/kg/" + s.Per
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
