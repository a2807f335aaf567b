// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// edfconvert reads EDF biosignal recordings and converts them to CSV, JSON
// or NumPy-compatible .npz archives.
package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagOutput   string
	flagChannels []string
)

func main() {
	cobra.OnInitialize(initConfig, setupLogging)

	if err := rootCommand().Execute(); err != nil {
		slog.Error("edfconvert failed", "error", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "edfconvert",
		Short:         "Convert EDF biosignal recordings to CSV, JSON or NumPy archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flagOutput, "output", "o", "",
		"Output path (defaults to the input name with the format's extension)")
	root.PersistentFlags().StringSliceVarP(&flagChannels, "channels", "c", nil,
		"Channel labels to export, in the given order (defaults to all channels)")
	root.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")
	_ = viper.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))

	root.AddCommand(infoCommand(), csvCommand(), jsonCommand(), npzCommand())
	return root
}

// initConfig wires up the configuration sources: an optional edfconvert.yaml
// next to the working directory or under the user config dir, EDFCONVERT_*
// environment variables, and command line flags, in increasing precedence.
func initConfig() {
	viper.SetConfigName("edfconvert")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "edfconvert"))
	}

	viper.SetEnvPrefix("EDFCONVERT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("csv.include_time", true)
	viper.SetDefault("json.include_metadata", true)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("ignoring unreadable config file", "error", err)
		}
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// outputPath resolves the destination for a conversion: the -o flag if
// given, otherwise the input path with its extension swapped.
func outputPath(input, ext string) string {
	if flagOutput != "" {
		return flagOutput
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}
