package app

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"vitals/internal/domain"
)

type weightInput struct {
	Value float64 `validate:"gt=0"`
	Unit  string  `validate:"oneof=kg lb"`
}

type waterInput struct {
	DeltaLiters float64 `validate:"waterdelta"`
}

type chartInput struct {
	Unit string `validate:"oneof=kg lb"`
}

// Validator checks boundary payloads before they reach a repository.
type Validator struct {
	v        *validator.Validate
	maxDelta float64
}

// NewValidator returns a Validator that accepts water deltas in
// [-maxDelta, maxDelta] excluding zero. A non-positive maxDelta selects the default.
func NewValidator(maxDelta float64) *Validator {
	if maxDelta <= 0 {
		maxDelta = domain.DefaultMaxWaterDelta
	}
	v := validator.New()
	_ = v.RegisterValidation("waterdelta", func(fl validator.FieldLevel) bool {
		d := fl.Field().Float()
		return d != 0 && math.Abs(d) <= maxDelta
	})
	return &Validator{v: v, maxDelta: maxDelta}
}

// MaxWaterDelta returns the configured water delta ceiling.
func (val *Validator) MaxWaterDelta() float64 {
	return val.maxDelta
}

// Weight validates a weight payload.
func (val *Validator) Weight(value float64, unit domain.Unit) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &domain.ValidationError{Field: "value", Msg: "must be > 0"}
	}
	return val.check(weightInput{Value: value, Unit: string(unit)})
}

// WaterDelta validates a water event delta.
func (val *Validator) WaterDelta(deltaLiters float64) error {
	return val.check(waterInput{DeltaLiters: deltaLiters})
}

// ChartUnit validates the unit requested for chart output.
func (val *Validator) ChartUnit(unit domain.Unit) error {
	return val.check(chartInput{Unit: string(unit)})
}

// Day validates a YYYY-MM-DD day key.
func (val *Validator) Day(day string) error {
	if !domain.ValidDay(day) {
		return &domain.ValidationError{Field: "day", Msg: fmt.Sprintf("must be YYYY-MM-DD, got %q", day)}
	}
	return nil
}

func (val *Validator) check(in any) error {
	err := val.v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Field() {
	case "Value":
		return &domain.ValidationError{Field: "value", Msg: "must be > 0"}
	case "Unit":
		return &domain.ValidationError{Field: "unit", Msg: `must be "kg" or "lb"`}
	case "DeltaLiters":
		return &domain.ValidationError{
			Field: "deltaLiters",
			Msg:   fmt.Sprintf("must be non-zero and within [-%g, %g]", val.maxDelta, val.maxDelta),
		}
	}
	return &domain.ValidationError{Field: fe.Field(), Msg: "failed " + fe.Tag()}
}
