package trig

import "math"

// cosEpsilon is the |cos| below which the tangent is reported as undefined.
// cos(π/2) evaluates to ~6e-17 in float64.
const cosEpsilon = 1e-12

// Values are the trig results at one angle.
type Values struct {
	AngleDeg int64
	AngleRad float64
	Sin      float64
	Cos      float64
	Tan      Tangent
}

// Compute evaluates sine, cosine and tangent at angleDeg degrees.
func Compute(angleDeg int64) Values {
	rad := float64(angleDeg) * math.Pi / 180
	sin, cos := math.Sincos(rad)

	tan := UndefinedTangent()
	if math.Abs(cos) >= cosEpsilon {
		tan = DefinedTangent(sin / cos)
	}

	return Values{
		AngleDeg: angleDeg,
		AngleRad: rad,
		Sin:      sin,
		Cos:      cos,
		Tan:      tan,
	}
}
