// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package export writes decoded EDF recordings out as CSV, JSON or
// NumPy-compatible .npz archives. Exporters take read-only views of an
// edf.Recording; a failed export never affects the recording, so the caller
// may retry a different format without re-decoding the file.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Zaburski/SeizureSalad/edf"
)

// IOError reports a failure to create or write an export destination.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("export: writing %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// writeFile runs an exporter against a freshly created file, mapping
// destination failures to *IOError. Selection errors (unknown channel
// labels) pass through untouched.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}

	if err := write(f); err != nil {
		f.Close()
		var unknown *edf.UnknownChannelError
		if errors.As(err, &unknown) {
			return err
		}
		return &IOError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

func formatSample(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// timeIndex maps sample j of a channel onto the shared time axis. A channel
// at the highest rate maps one-to-one; a lower-rate channel lands on every
// axisLen/sampleCount'th position.
func timeIndex(j, sampleCount, axisLen int) int {
	return j * axisLen / sampleCount
}
