package reference

import (
	"fmt"
	"math"
)

// Physical constants for Planck's law, SI units.
const (
	planckH    = 6.62607015e-34 // J·s
	lightSpeed = 2.99792458e8   // m/s
	boltzmannK = 1.380649e-23   // J/K
)

// Filament temperature bounds for tungsten reference generation, matching
// the range a halogen filament can plausibly reach.
const (
	MinFilamentKelvin = 1000.0
	MaxFilamentKelvin = 3500.0
)

// planckRadiance evaluates the spectral radiance of a blackbody at the given
// wavelength (nm) and temperature (K). The absolute scale is irrelevant
// here; the caller normalizes.
func planckRadiance(wavelengthNm, kelvin float64) float64 {
	if wavelengthNm <= 0 {
		return 0
	}

	lambda := wavelengthNm * 1e-9
	exponent := planckH * lightSpeed / (lambda * boltzmannK * kelvin)

	return 2 * planckH * lightSpeed * lightSpeed /
		(math.Pow(lambda, 5) * (math.Exp(exponent) - 1))
}

// validateFilamentTemp checks the tungsten temperature bounds.
func validateFilamentTemp(kelvin float64) error {
	if kelvin < MinFilamentKelvin || kelvin > MaxFilamentKelvin {
		return fmt.Errorf("reference: filament temperature %g K outside [%g, %g]",
			kelvin, MinFilamentKelvin, MaxFilamentKelvin)
	}

	return nil
}
