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
	"strings"
)

// HeaderError reports a malformed or self-inconsistent EDF header. Field
// names the offending header field and Offset is its byte position in the
// file, so a bad file can be diagnosed without re-reading it.
type HeaderError struct {
	Field  string // header field name, e.g. "number of data records"
	Offset int64  // byte offset of the field within the file
	Value  string // offending field content, trimmed
	Reason string // why the field was rejected
}

func (e *HeaderError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("edf: header field %q at offset %d: %s (got %q)", e.Field, e.Offset, e.Reason, e.Value)
	}
	return fmt.Sprintf("edf: header field %q at offset %d: %s", e.Field, e.Offset, e.Reason)
}

// RecordError reports a short or corrupt data record. A clean EOF exactly at
// a record boundary is not a RecordError; it is reported as io.EOF by the
// decoder.
type RecordError struct {
	Record int   // zero-based index of the failed record
	Offset int64 // byte offset of the record within the file
	Want   int   // bytes expected for the record
	Got    int   // bytes actually read
	Err    error // underlying read error, if any
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("edf: data record %d at offset %d: read %d of %d bytes", e.Record, e.Offset, e.Got, e.Want)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error { return e.Err }

// UnknownChannelError reports a channel label that does not exist in the
// recording. Available lists the labels that do.
type UnknownChannelError struct {
	Label     string
	Available []string
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("edf: channel %q not found, available channels: %s", e.Label, strings.Join(e.Available, ", "))
}
