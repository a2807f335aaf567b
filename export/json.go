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
	"encoding/json"
	"io"

	"github.com/Zaburski/SeizureSalad/edf"
)

// JSONOptions control the JSON exporter.
type JSONOptions struct {
	// Channels restricts the export to the given labels, in the given order.
	Channels []string
	// OmitMetadata drops the recording summary from the document.
	OmitMetadata bool
}

type jsonDocument struct {
	Metadata *edf.Info `json:"metadata,omitempty"`
	Data     jsonData  `json:"data"`
}

type jsonData struct {
	Times    []float64            `json:"times"`
	Channels map[string][]float64 `json:"channels"`
}

// JSON writes the recording as a single object holding the time axis and one
// sample array per channel, keyed by label. Channel arrays keep their own
// lengths; a lower-rate channel's array is simply shorter than the time
// axis.
func JSON(w io.Writer, rec *edf.Recording, opts JSONOptions) error {
	channels, times, err := rec.Data(opts.Channels...)
	if err != nil {
		return err
	}

	doc := jsonDocument{
		Data: jsonData{
			Times:    times,
			Channels: make(map[string][]float64, len(channels)),
		},
	}
	if !opts.OmitMetadata {
		info := rec.Info()
		doc.Metadata = &info
	}
	for _, ch := range channels {
		doc.Data.Channels[ch.Label] = ch.Samples
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// JSONFile writes the recording to a JSON file at the given path.
func JSONFile(path string, rec *edf.Recording, opts JSONOptions) error {
	return writeFile(path, func(w io.Writer) error {
		return JSON(w, rec, opts)
	})
}
