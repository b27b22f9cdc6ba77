package domain

const kgToLb = 2.2046226218

// ConvertWeight converts a weight value between kilograms and pounds.
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to Unit) float64 {
	if from == to {
		return v
	}
	if from == Kilograms && to == Pounds {
		return v * kgToLb
	}
	if from == Pounds && to == Kilograms {
		return v / kgToLb
	}
	return v
}
