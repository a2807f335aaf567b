// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zaburski/SeizureSalad/edf"
)

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <recording.edf>",
		Short: "Print a summary of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRecording(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func printInfo(w io.Writer, rec *edf.Recording) {
	info := rec.Info()

	fmt.Fprintln(w, "EDF File Information:")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "filename: %s\n", info.Filename)
	fmt.Fprintf(w, "n_channels: %d\n", info.NumChannels)
	fmt.Fprintf(w, "channel_names: %s\n", strings.Join(info.ChannelNames, ", "))
	fmt.Fprintf(w, "sampling_rate: %s Hz\n", humanize.Commaf(info.SampleRate))
	fmt.Fprintf(w, "duration_seconds: %s\n", humanize.CommafWithDigits(info.DurationSeconds, 3))
	fmt.Fprintf(w, "n_samples: %s\n", humanize.Comma(int64(info.NumSamples)))
	if info.StartTime != "" {
		fmt.Fprintf(w, "start_time: %s\n", info.StartTime)
	}

	for _, ch := range rec.Channels {
		if ch.Uncalibrated {
			fmt.Fprintf(w, "warning: channel %q has a degenerate calibration range, samples are raw digital values\n", ch.Label)
		}
	}
}
