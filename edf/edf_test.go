// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/Zaburski/SeizureSalad/edf"
)

// Byte offsets of fixed header fields, used by tests that corrupt a field in
// place.
const (
	offHeaderBytes = 184
	offDataRecords = 236
	offDuration    = 244
)

// encodeEDF builds a synthetic EDF byte stream for the given header and
// digital data records. Records are indexed [record][signal][sample].
func encodeEDF(hdr edf.Header, records [][][]int16) []byte {
	var buf bytes.Buffer

	pad := func(width int, s string) {
		fmt.Fprintf(&buf, "%-*s", width, s)
	}

	pad(8, string(hdr.Version))
	pad(80, hdr.PatientID)
	pad(80, hdr.RecordingID)
	if hdr.StartTime.IsZero() {
		pad(8, "")
		pad(8, "")
	} else {
		pad(8, hdr.StartTime.Format("02.01.06"))
		pad(8, hdr.StartTime.Format("15.04.05"))
	}
	pad(8, strconv.Itoa(256+256*len(hdr.Signals)))
	pad(44, "")
	pad(8, strconv.Itoa(hdr.DataRecords))
	pad(8, strconv.FormatFloat(hdr.DataRecordDuration.Seconds(), 'g', -1, 64))
	pad(4, strconv.Itoa(len(hdr.Signals)))

	// The signal header block is field-major: one pass over all signals per
	// field.
	for _, sig := range hdr.Signals {
		pad(16, sig.Label)
	}
	for _, sig := range hdr.Signals {
		pad(80, sig.TransducerType)
	}
	for _, sig := range hdr.Signals {
		pad(8, sig.PhysicalDimension)
	}
	for _, sig := range hdr.Signals {
		pad(8, strconv.FormatFloat(sig.PhysicalMin, 'g', -1, 64))
	}
	for _, sig := range hdr.Signals {
		pad(8, strconv.FormatFloat(sig.PhysicalMax, 'g', -1, 64))
	}
	for _, sig := range hdr.Signals {
		pad(8, strconv.Itoa(sig.DigitalMin))
	}
	for _, sig := range hdr.Signals {
		pad(8, strconv.Itoa(sig.DigitalMax))
	}
	for _, sig := range hdr.Signals {
		pad(80, sig.Prefiltering)
	}
	for _, sig := range hdr.Signals {
		pad(8, strconv.Itoa(sig.SamplesPerRecord))
	}
	for range hdr.Signals {
		pad(32, "")
	}

	for _, record := range records {
		for _, samples := range record {
			for _, v := range samples {
				var w [2]byte
				binary.LittleEndian.PutUint16(w[:], uint16(v))
				buf.Write(w[:])
			}
		}
	}

	return buf.Bytes()
}

// testHeader returns a two-signal header: a 4 Hz EEG channel and a 2 Hz
// respiration channel over one-second records.
func testHeader(dataRecords int) edf.Header {
	return edf.Header{
		Version:            edf.Version0,
		PatientID:          "Patient X",
		RecordingID:        "Recording 1",
		StartTime:          time.Date(2024, time.March, 1, 22, 15, 30, 0, time.UTC),
		DataRecords:        dataRecords,
		DataRecordDuration: time.Second,
		SignalCount:        2,
		Signals: []edf.Signal{
			{
				Label:             "EEG Fpz-Cz",
				TransducerType:    "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -500,
				PhysicalMax:       500,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				Prefiltering:      "HP:0.1Hz LP:75Hz",
				SamplesPerRecord:  4,
			},
			{
				Label:             "Resp oro-nasal",
				TransducerType:    "Thermistor",
				PhysicalDimension: "L/s",
				PhysicalMin:       -1,
				PhysicalMax:       1,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				SamplesPerRecord:  2,
			},
		},
	}
}

// corrupt overwrites the fixed-width field at the given offset, padding the
// replacement with spaces.
func corrupt(b []byte, offset, width int, value string) {
	copy(b[offset:offset+width], fmt.Sprintf("%-*s", width, value))
}
