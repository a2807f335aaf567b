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
	"encoding/binary"
	"errors"
	"io"
)

// DataRecord holds the digital samples of one decoded data record, indexed
// by signal. Each inner slice has exactly that signal's SamplesPerRecord
// entries. Records are transient; the slices are reused by the decoder on
// the next call to Next.
type DataRecord [][]int16

// RecordDecoder decodes data records sequentially from the byte stream that
// follows the header. Records are a flat run of little-endian 16-bit signed
// integers laid out signal-major: all of signal 0's samples, then all of
// signal 1's, and so on.
type RecordDecoder struct {
	r       io.Reader
	signals []Signal
	buf     []byte
	record  DataRecord
	index   int
	offset  int64
}

// NewRecordDecoder returns a decoder for the data records described by hdr.
// The reader must be positioned at the first data record, i.e. at byte
// offset hdr.HeaderBytes of the file.
func NewRecordDecoder(r io.Reader, hdr *Header) *RecordDecoder {
	var recordSize int
	record := make(DataRecord, len(hdr.Signals))
	for i, sig := range hdr.Signals {
		record[i] = make([]int16, sig.SamplesPerRecord)
		recordSize += sig.SamplesPerRecord * 2
	}

	return &RecordDecoder{
		r:       r,
		signals: hdr.Signals,
		buf:     make([]byte, recordSize),
		record:  record,
		offset:  int64(hdr.HeaderBytes),
	}
}

// Next decodes the next data record. It returns io.EOF when the stream ends
// cleanly at a record boundary, and a *RecordError when the stream ends
// mid-record or the read fails. The returned DataRecord is only valid until
// the following call to Next.
func (d *RecordDecoder) Next() (DataRecord, error) {
	n, err := io.ReadFull(d.r, d.buf)
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		// Short read mid-record: the file is truncated or corrupt, never a
		// normal end of stream.
		return nil, &RecordError{
			Record: d.index,
			Offset: d.offset,
			Want:   len(d.buf),
			Got:    n,
			Err:    err,
		}
	}

	pos := 0
	for i := range d.signals {
		samples := d.record[i]
		for j := range samples {
			samples[j] = int16(binary.LittleEndian.Uint16(d.buf[pos:]))
			pos += 2
		}
	}

	d.index++
	d.offset += int64(len(d.buf))
	return d.record, nil
}

// Count reports the number of records decoded so far. When the header
// declares an unknown record count, the count observed at end of stream
// becomes authoritative for sizing the decoded recording.
func (d *RecordDecoder) Count() int { return d.index }

// Offset reports the byte offset of the next record within the file.
func (d *RecordDecoder) Offset() int64 { return d.offset }

// RecordSize reports the size of one data record in bytes.
func (d *RecordDecoder) RecordSize() int { return len(d.buf) }
