/*
Copyright 2026 The Mimetypes Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(filtersCmd, suffixesCmd, globsCmd)
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List file-dialog filter captions for every type with glob patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		db, store, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		printLines(cmd, db.FilterStrings())
		return nil
	},
}

var suffixesCmd = &cobra.Command{
	Use:   "suffixes",
	Short: "List every suffix derived from a registered glob pattern",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		db, store, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		printLines(cmd, db.Suffixes())
		return nil
	},
}

var globsCmd = &cobra.Command{
	Use:   "globs",
	Short: "List every registered glob pattern",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		db, store, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		printLines(cmd, db.GlobPatterns())
		return nil
	},
}

func printLines(cmd *cobra.Command, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
}
