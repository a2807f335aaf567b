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
	"strconv"
	"strings"
	"time"
)

const (
	fixedHeaderLen  = 256
	signalHeaderLen = 256
)

// fieldScanner walks a header buffer one fixed-width field at a time,
// tracking the absolute byte offset of each field for error reporting.
type fieldScanner struct {
	buf []byte
	off int64
}

func (s *fieldScanner) next(n int) (b []byte, off int64) {
	b, off = s.buf[:n], s.off
	s.buf = s.buf[n:]
	s.off += int64(n)
	return b, off
}

// textField trims the trailing space padding from a fixed-width ASCII field,
// preserving any internal spacing.
func textField(b []byte) string {
	return strings.TrimRight(string(b), " ")
}

// intField parses a fixed-width decimal integer field. Unlike lenient EDF
// readers, non-numeric content is a hard HeaderError, never coerced to zero.
func intField(name string, b []byte, off int64) (int, error) {
	s := strings.TrimSpace(string(b))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &HeaderError{Field: name, Offset: off, Value: s, Reason: "not a valid integer"}
	}
	return v, nil
}

// floatField parses a fixed-width decimal field that may carry a sign and a
// decimal point.
func floatField(name string, b []byte, off int64) (float64, error) {
	s := strings.TrimSpace(string(b))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &HeaderError{Field: name, Offset: off, Value: s, Reason: "not a valid number"}
	}
	return v, nil
}

// ParseHeader reads and validates the fixed 256-byte header and the
// per-signal header block that follows it. On return the reader is
// positioned at the first data record.
//
// The per-signal block is field-major on disk: all labels, then all
// transducer types, and so on. The parser makes one pass per field, filling
// the same slot index across every signal.
func ParseHeader(r io.Reader) (*Header, error) {
	b := make([]byte, fixedHeaderLen)
	if n, err := io.ReadFull(r, b); err != nil {
		return nil, &HeaderError{
			Field:  "fixed header",
			Offset: 0,
			Reason: fmt.Sprintf("short read: got %d of %d bytes", n, fixedHeaderLen),
		}
	}

	s := &fieldScanner{buf: b}
	hdr := &Header{}

	f, _ := s.next(8)
	hdr.Version = Version(textField(f))
	f, _ = s.next(80)
	hdr.PatientID = textField(f)
	f, _ = s.next(80)
	hdr.RecordingID = textField(f)

	f, _ = s.next(8)
	dateStr := strings.TrimSpace(string(f))
	f, _ = s.next(8)
	timeStr := strings.TrimSpace(string(f))
	hdr.StartTime = parseStartTime(dateStr, timeStr)

	f, off := s.next(8)
	headerBytes, err := intField("number of bytes in header", f, off)
	if err != nil {
		return nil, err
	}
	hdr.HeaderBytes = headerBytes

	s.next(44) // reserved

	f, off = s.next(8)
	dataRecords, err := intField("number of data records", f, off)
	if err != nil {
		return nil, err
	}
	if dataRecords < -1 {
		return nil, &HeaderError{
			Field:  "number of data records",
			Offset: off,
			Value:  strconv.Itoa(dataRecords),
			Reason: "must be -1 (unknown) or non-negative",
		}
	}
	hdr.DataRecords = dataRecords

	f, off = s.next(8)
	durationSecs, err := floatField("data record duration", f, off)
	if err != nil {
		return nil, err
	}
	if durationSecs <= 0 {
		return nil, &HeaderError{
			Field:  "data record duration",
			Offset: off,
			Value:  strings.TrimSpace(string(f)),
			Reason: "must be positive",
		}
	}
	hdr.DataRecordDuration = time.Duration(durationSecs * float64(time.Second))

	f, off = s.next(4)
	signalCount, err := intField("number of signals", f, off)
	if err != nil {
		return nil, err
	}
	if signalCount <= 0 {
		return nil, &HeaderError{
			Field:  "number of signals",
			Offset: off,
			Value:  strconv.Itoa(signalCount),
			Reason: "must be positive",
		}
	}
	hdr.SignalCount = signalCount

	// Self-consistency check: the header must account for itself exactly.
	if want := fixedHeaderLen + signalHeaderLen*signalCount; headerBytes != want {
		return nil, &HeaderError{
			Field:  "number of bytes in header",
			Offset: 184,
			Value:  strconv.Itoa(headerBytes),
			Reason: fmt.Sprintf("expected %d for %d signals", want, signalCount),
		}
	}

	sb := make([]byte, signalHeaderLen*signalCount)
	if n, err := io.ReadFull(r, sb); err != nil {
		return nil, &HeaderError{
			Field:  "signal header block",
			Offset: fixedHeaderLen,
			Reason: fmt.Sprintf("short read: got %d of %d bytes", n, len(sb)),
		}
	}

	hdr.Signals = make([]Signal, signalCount)
	s = &fieldScanner{buf: sb, off: fixedHeaderLen}

	for i := range hdr.Signals {
		f, _ := s.next(16)
		hdr.Signals[i].Label = textField(f)
	}
	for i := range hdr.Signals {
		f, _ := s.next(80)
		hdr.Signals[i].TransducerType = textField(f)
	}
	for i := range hdr.Signals {
		f, _ := s.next(8)
		hdr.Signals[i].PhysicalDimension = textField(f)
	}
	for i := range hdr.Signals {
		f, off := s.next(8)
		if hdr.Signals[i].PhysicalMin, err = floatField(signalField("physical minimum", i, hdr.Signals[i].Label), f, off); err != nil {
			return nil, err
		}
	}
	for i := range hdr.Signals {
		f, off := s.next(8)
		if hdr.Signals[i].PhysicalMax, err = floatField(signalField("physical maximum", i, hdr.Signals[i].Label), f, off); err != nil {
			return nil, err
		}
	}
	for i := range hdr.Signals {
		f, off := s.next(8)
		if hdr.Signals[i].DigitalMin, err = intField(signalField("digital minimum", i, hdr.Signals[i].Label), f, off); err != nil {
			return nil, err
		}
	}
	for i := range hdr.Signals {
		f, off := s.next(8)
		if hdr.Signals[i].DigitalMax, err = intField(signalField("digital maximum", i, hdr.Signals[i].Label), f, off); err != nil {
			return nil, err
		}
	}
	for i := range hdr.Signals {
		f, _ := s.next(80)
		hdr.Signals[i].Prefiltering = textField(f)
	}
	for i := range hdr.Signals {
		f, off := s.next(8)
		spr, err := intField(signalField("samples per record", i, hdr.Signals[i].Label), f, off)
		if err != nil {
			return nil, err
		}
		if spr < 1 {
			return nil, &HeaderError{
				Field:  signalField("samples per record", i, hdr.Signals[i].Label),
				Offset: off,
				Value:  strconv.Itoa(spr),
				Reason: "must be at least 1",
			}
		}
		hdr.Signals[i].SamplesPerRecord = spr
	}
	for i := range hdr.Signals {
		f, _ := s.next(32)
		hdr.Signals[i].Reserved = textField(f)
	}

	// Degenerate calibration ranges are flagged, not rejected: the signal's
	// samples pass through unscaled and consumers see the flag.
	for i := range hdr.Signals {
		sig := &hdr.Signals[i]
		if sig.DigitalMax <= sig.DigitalMin || sig.PhysicalMax == sig.PhysicalMin {
			sig.Uncalibrated = true
		}
	}

	return hdr, nil
}

func signalField(name string, index int, label string) string {
	return fmt.Sprintf("%s of signal %d (%s)", name, index, label)
}

// parseStartTime combines the dd.mm.yy and hh.mm.ss header fields. Files in
// the wild frequently carry unparseable or blank values here, so failure
// yields a zero time rather than an error; summaries report it as absent.
func parseStartTime(dateStr, timeStr string) time.Time {
	startDate, err := time.Parse("02.01.06", dateStr)
	if err != nil {
		return time.Time{}
	}
	startTime, err := time.Parse("15.04.05", timeStr)
	if err != nil {
		return time.Time{}
	}
	return time.Date(startDate.Year(), startDate.Month(), startDate.Day(),
		startTime.Hour(), startTime.Minute(), startTime.Second(), 0, time.UTC)
}
