// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

// Calibrator converts digital samples to physical units using each signal's
// own linear calibration:
//
//	physical = physicalMin + (digital - digitalMin) * (physicalMax - physicalMin) / (digitalMax - digitalMin)
//
// The per-signal gain and offset are precomputed so conversion is a single
// multiply-add per sample. Signals flagged Uncalibrated get an identity
// mapping; their raw digital values pass through unscaled.
type Calibrator struct {
	gain   []float64
	offset []float64
}

// NewCalibrator builds a calibrator for the given signals.
func NewCalibrator(signals []Signal) *Calibrator {
	c := &Calibrator{
		gain:   make([]float64, len(signals)),
		offset: make([]float64, len(signals)),
	}
	for i, sig := range signals {
		if sig.Uncalibrated || sig.DigitalMax <= sig.DigitalMin || sig.PhysicalMax == sig.PhysicalMin {
			c.gain[i] = 1
			continue
		}
		c.gain[i] = (sig.PhysicalMax - sig.PhysicalMin) / float64(sig.DigitalMax-sig.DigitalMin)
		c.offset[i] = sig.PhysicalMin - float64(sig.DigitalMin)*c.gain[i]
	}
	return c
}

// Physical converts one digital sample of the signal at the given index.
func (c *Calibrator) Physical(signalIndex int, digital int16) float64 {
	return c.offset[signalIndex] + c.gain[signalIndex]*float64(digital)
}
