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
	"encoding/csv"
	"io"

	"github.com/Zaburski/SeizureSalad/edf"
)

// CSVOptions control the CSV exporter.
type CSVOptions struct {
	// Channels restricts the export to the given labels, in the given order.
	// Empty means all channels in descriptor order.
	Channels []string
	// OmitTime drops the leading Time column.
	OmitTime bool
}

// CSV writes the recording as one row per time-axis sample. The header row
// is Time plus the channel labels. A channel sampled below the highest rate
// occupies only its native time positions; every other cell in its column is
// an explicit empty marker, never a zero.
func CSV(w io.Writer, rec *edf.Recording, opts CSVOptions) error {
	channels, times, err := rec.Data(opts.Channels...)
	if err != nil {
		return err
	}

	// Lay each channel's samples out against the shared time axis up front,
	// leaving the gaps of lower-rate channels empty.
	columns := make([][]string, len(channels))
	for i, ch := range channels {
		col := make([]string, len(times))
		if n := len(ch.Samples); n > 0 {
			for j, v := range ch.Samples {
				col[timeIndex(j, n, len(times))] = formatSample(v)
			}
		}
		columns[i] = col
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(channels)+1)
	if !opts.OmitTime {
		header = append(header, "Time")
	}
	for _, ch := range channels {
		header = append(header, ch.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for t, timeVal := range times {
		row = row[:0]
		if !opts.OmitTime {
			row = append(row, formatSample(timeVal))
		}
		for i := range columns {
			row = append(row, columns[i][t])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFile writes the recording to a CSV file at the given path.
func CSVFile(path string, rec *edf.Recording, opts CSVOptions) error {
	return writeFile(path, func(w io.Writer) error {
		return CSV(w, rec, opts)
	})
}
