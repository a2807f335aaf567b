// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Channel pairs a signal descriptor with its fully decoded physical samples.
type Channel struct {
	Signal
	Samples []float64
}

// Recording is the decoded result of an EDF file: every channel's calibrated
// samples plus a shared time axis. It is built in one pass by Read and is
// immutable afterwards, so it may be shared freely across concurrent
// exporters.
//
// The time axis has one entry per sample of the highest-rate channel.
// Lower-rate channels keep their own sample counts; they are never resampled
// or padded to match.
type Recording struct {
	Filename    string
	Header      *Header
	Channels    []Channel
	Times       []float64
	SampleRate  float64 // Highest channel rate in Hz
	RecordCount int     // Records actually decoded
}

// ReadFile decodes the EDF file at the given path. The file handle is held
// only for the duration of the decode and is closed before ReadFile returns,
// whether the decode succeeds or fails.
func ReadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("edf: opening %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Read(f)
	if err != nil {
		return nil, err
	}
	rec.Filename = filepath.Base(path)
	return rec, nil
}

// Read decodes a complete EDF byte stream: header, then every data record,
// calibrating each sample and appending it to its channel's buffer. Any
// decode error aborts the whole load; a partially populated Recording is
// never returned.
func Read(r io.Reader) (*Recording, error) {
	hdr, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}

	channels := make([]Channel, len(hdr.Signals))
	for i, sig := range hdr.Signals {
		channels[i].Signal = sig
		if hdr.DataRecords >= 0 {
			channels[i].Samples = make([]float64, 0, sig.SamplesPerRecord*hdr.DataRecords)
		}
	}

	dec := NewRecordDecoder(r, hdr)
	cal := NewCalibrator(hdr.Signals)

	for hdr.DataRecords < 0 || dec.Count() < hdr.DataRecords {
		record, err := dec.Next()
		if err == io.EOF {
			if hdr.DataRecords < 0 {
				// Unknown record count: end of stream is the normal terminal
				// state and the observed count becomes authoritative.
				break
			}
			return nil, &RecordError{
				Record: dec.Count(),
				Offset: dec.Offset(),
				Want:   dec.RecordSize(),
				Err: fmt.Errorf("record stream ended after %d of %d declared records",
					dec.Count(), hdr.DataRecords),
			}
		}
		if err != nil {
			return nil, err
		}

		for i := range channels {
			for _, digital := range record[i] {
				channels[i].Samples = append(channels[i].Samples, cal.Physical(i, digital))
			}
		}
	}

	recordCount := dec.Count()

	maxPerRecord := 0
	for _, sig := range hdr.Signals {
		if sig.SamplesPerRecord > maxPerRecord {
			maxPerRecord = sig.SamplesPerRecord
		}
	}

	step := hdr.DataRecordDuration.Seconds() / float64(maxPerRecord)
	times := make([]float64, maxPerRecord*recordCount)
	for i := range times {
		times[i] = float64(i) * step
	}

	return &Recording{
		Header:      hdr,
		Channels:    channels,
		Times:       times,
		SampleRate:  float64(maxPerRecord) / hdr.DataRecordDuration.Seconds(),
		RecordCount: recordCount,
	}, nil
}

// Info summarizes a recording for display and for exporter metadata.
type Info struct {
	Filename        string   `json:"filename"`
	NumChannels     int      `json:"n_channels"`
	ChannelNames    []string `json:"channel_names"`
	SampleRate      float64  `json:"sampling_rate"`
	DurationSeconds float64  `json:"duration_seconds"`
	NumSamples      int      `json:"n_samples"`
	StartTime       string   `json:"start_time,omitempty"`
}

// Info returns the recording summary. StartTime is empty when the file's
// start date could not be parsed.
func (r *Recording) Info() Info {
	info := Info{
		Filename:     r.Filename,
		NumChannels:  len(r.Channels),
		ChannelNames: r.Labels(),
		SampleRate:   r.SampleRate,
		NumSamples:   len(r.Times),
	}
	if len(r.Times) > 0 {
		info.DurationSeconds = r.Times[len(r.Times)-1]
	}
	if r.Header != nil && !r.Header.StartTime.IsZero() {
		info.StartTime = r.Header.StartTime.Format(time.DateTime)
	}
	return info
}

// Labels returns the channel labels in descriptor order.
func (r *Recording) Labels() []string {
	labels := make([]string, len(r.Channels))
	for i, ch := range r.Channels {
		labels[i] = ch.Label
	}
	return labels
}

// Data returns the channels selected by the given labels, in the order the
// labels were given, along with the shared time axis. With no labels it
// returns every channel in descriptor order. An unknown label yields an
// *UnknownChannelError naming it; no partial selection is returned.
func (r *Recording) Data(labels ...string) ([]Channel, []float64, error) {
	if len(labels) == 0 {
		return r.Channels, r.Times, nil
	}

	selected := make([]Channel, 0, len(labels))
	for _, label := range labels {
		ch, err := r.Channel(label)
		if err != nil {
			return nil, nil, err
		}
		selected = append(selected, ch)
	}
	return selected, r.Times, nil
}

// Channel returns the channel with the given label.
func (r *Recording) Channel(label string) (Channel, error) {
	for _, ch := range r.Channels {
		if ch.Label == label {
			return ch, nil
		}
	}
	return Channel{}, &UnknownChannelError{Label: label, Available: r.Labels()}
}
