// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package export_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Zaburski/SeizureSalad/edf"
	"github.com/Zaburski/SeizureSalad/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRecording builds a decoded two-channel recording: channel A at the
// full 4 Hz rate with 12 samples, channel B at 2 Hz with 6 samples, over
// three one-second records.
func testRecording() *edf.Recording {
	a := edf.Channel{
		Signal:  edf.Signal{Label: "A", PhysicalDimension: "uV", SamplesPerRecord: 4},
		Samples: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	}
	b := edf.Channel{
		Signal:  edf.Signal{Label: "B", PhysicalDimension: "L/s", SamplesPerRecord: 2},
		Samples: []float64{100, 101, 102, 103, 104, 105},
	}

	times := make([]float64, 12)
	for i := range times {
		times[i] = float64(i) * 0.25
	}

	return &edf.Recording{
		Filename:    "sleep.edf",
		Channels:    []edf.Channel{a, b},
		Times:       times,
		SampleRate:  4,
		RecordCount: 3,
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, testRecording(), export.CSVOptions{}))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 13)

	assert.Equal(t, []string{"Time", "A", "B"}, rows[0])

	// The lower-rate channel occupies every other time-axis row and is
	// explicitly empty elsewhere, never zero-filled.
	assert.Equal(t, []string{"0", "0", "100"}, rows[1])
	assert.Equal(t, []string{"0.25", "1", ""}, rows[2])
	assert.Equal(t, []string{"0.5", "2", "101"}, rows[3])
	assert.Equal(t, []string{"0.75", "3", ""}, rows[4])
	assert.Equal(t, []string{"2.5", "10", "105"}, rows[11])
	assert.Equal(t, []string{"2.75", "11", ""}, rows[12])
}

func TestCSVOmitTime(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, testRecording(), export.CSVOptions{OmitTime: true}))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, rows[0])
	assert.Equal(t, []string{"0", "100"}, rows[1])
}

func TestCSVChannelFilterOrder(t *testing.T) {
	var buf bytes.Buffer
	opts := export.CSVOptions{Channels: []string{"B", "A"}}
	require.NoError(t, export.CSV(&buf, testRecording(), opts))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Time", "B", "A"}, rows[0])
}

func TestCSVUnknownChannel(t *testing.T) {
	var buf bytes.Buffer
	err := export.CSV(&buf, testRecording(), export.CSVOptions{Channels: []string{"A", "Z"}})

	var uerr *edf.UnknownChannelError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Z", uerr.Label)
	assert.Equal(t, []string{"A", "B"}, uerr.Available)
	assert.Zero(t, buf.Len())
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, export.CSVFile(path, testRecording(), export.CSVOptions{}))

	f, err := csvRows(path)
	require.NoError(t, err)
	assert.Len(t, f, 13)
}

func TestCSVFileUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "out.csv")
	err := export.CSVFile(path, testRecording(), export.CSVOptions{})

	var ioErr *export.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, path, ioErr.Path)
}

func csvRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}
