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
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Zaburski/SeizureSalad/edf"
	"github.com/Zaburski/SeizureSalad/export"
)

func csvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv <recording.edf>",
		Short: "Export a recording as row-per-timestamp CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRecording(args[0])
			if err != nil {
				return err
			}

			out := outputPath(args[0], "csv")
			opts := export.CSVOptions{
				Channels: flagChannels,
				OmitTime: !viper.GetBool("csv.include_time"),
			}
			if err := export.CSVFile(out, rec, opts); err != nil {
				return err
			}
			slog.Info("CSV file saved", "path", out)
			return nil
		},
	}
	cmd.Flags().Bool("include-time", true, "Include a leading Time column")
	_ = viper.BindPFlag("csv.include_time", cmd.Flags().Lookup("include-time"))
	return cmd
}

func jsonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json <recording.edf>",
		Short: "Export a recording as a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRecording(args[0])
			if err != nil {
				return err
			}

			out := outputPath(args[0], "json")
			opts := export.JSONOptions{
				Channels:     flagChannels,
				OmitMetadata: !viper.GetBool("json.include_metadata"),
			}
			if err := export.JSONFile(out, rec, opts); err != nil {
				return err
			}
			slog.Info("JSON file saved", "path", out)
			return nil
		},
	}
	cmd.Flags().Bool("metadata", true, "Include the recording summary in the document")
	_ = viper.BindPFlag("json.include_metadata", cmd.Flags().Lookup("metadata"))
	return cmd
}

func npzCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "npz <recording.edf>",
		Aliases: []string{"numpy"},
		Short:   "Export a recording as a NumPy-compatible .npz archive",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadRecording(args[0])
			if err != nil {
				return err
			}

			out := outputPath(args[0], "npz")
			if err := export.NPZFile(out, rec, export.NPZOptions{Channels: flagChannels}); err != nil {
				return err
			}
			slog.Info("NumPy archive saved", "path", out)
			return nil
		},
	}
}

func loadRecording(path string) (*edf.Recording, error) {
	start := time.Now()
	rec, err := edf.ReadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("recording decoded",
		"path", path,
		"channels", len(rec.Channels),
		"records", rec.RecordCount,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return rec, nil
}
