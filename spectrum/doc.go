// Package spectrum defines the value types shared by the spectrometer
// processing pipeline: per-column intensity profiles, calibrated spectra,
// absorbance spectra and export rows.
//
// All types here are plain data. A value handed to a consumer is never
// mutated afterwards; producers that need to keep working data call Clone.
package spectrum
