// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package export

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Zaburski/SeizureSalad/edf"
)

// NPZOptions control the array-archive exporter.
type NPZOptions struct {
	// Channels restricts the export to the given labels, in the given order.
	Channels []string
}

// NPZ writes the recording as a NumPy-compatible .npz archive: a zip holding
// one float64 .npy array per channel keyed by label, a times array, and a
// 0-d sampling_rate scalar. Channels keep their own lengths and are never
// stacked into a single rectangular matrix.
func NPZ(w io.Writer, rec *edf.Recording, opts NPZOptions) error {
	channels, times, err := rec.Data(opts.Channels...)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	for _, ch := range channels {
		if err := npyArray(zw, ch.Label+".npy", ch.Samples); err != nil {
			return err
		}
	}
	if err := npyArray(zw, "times.npy", times); err != nil {
		return err
	}
	if err := npyScalar(zw, "sampling_rate.npy", rec.SampleRate); err != nil {
		return err
	}

	return zw.Close()
}

// NPZFile writes the recording to an .npz archive at the given path.
func NPZFile(path string, rec *edf.Recording, opts NPZOptions) error {
	return writeFile(path, func(w io.Writer) error {
		return NPZ(w, rec, opts)
	})
}

func npyArray(zw *zip.Writer, name string, values []float64) error {
	return writeNPY(zw, name, fmt.Sprintf("(%d,)", len(values)), values)
}

func npyScalar(zw *zip.Writer, name string, value float64) error {
	return writeNPY(zw, name, "()", []float64{value})
}

// writeNPY emits one NPY v1.0 entry: the magic string, a space-padded ASCII
// header dict describing a little-endian float64 array of the given shape,
// then the raw sample words.
func writeNPY(zw *zip.Writer, name, shape string, values []float64) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': %s, }", shape)
	// Magic (6) + version (2) + header length (2) + header, padded to a
	// 64-byte boundary and newline-terminated, per the NPY format spec.
	pad := (64 - (10+len(header)+1)%64) % 64
	header += strings.Repeat(" ", pad) + "\n"

	preamble := make([]byte, 0, 10)
	preamble = append(preamble, "\x93NUMPY"...)
	preamble = append(preamble, 0x01, 0x00)
	preamble = binary.LittleEndian.AppendUint16(preamble, uint16(len(header)))
	if _, err := w.Write(preamble); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
