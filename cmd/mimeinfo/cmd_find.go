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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seanpm2001/playground-mimetypes/pkg/filematch"
	"github.com/seanpm2001/playground-mimetypes/pkg/locale"
	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
)

func init() {
	rootCmd.AddCommand(findTypeCmd, findNameCmd, findDataCmd, findFileCmd)
}

var findTypeCmd = &cobra.Command{
	Use:   "find-type <type-or-alias>",
	Short: "Print the record registered under a canonical type or alias",
	Args:  cobra.ExactArgs(1),
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
		printType(cmd, db.FindByType(args[0]), cfg)
		return nil
	},
}

var findNameCmd = &cobra.Command{
	Use:   "find-name <filename>",
	Short: "Find the best type by filename glob alone",
	Args:  cobra.ExactArgs(1),
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
		mt, priority := db.FindByName(args[0])
		printMatch(cmd, mt, priority, cfg)
		return nil
	},
}

var findDataCmd = &cobra.Command{
	Use:   "find-data <file>",
	Short: "Find the best type by sniffing a file's content",
	Args:  cobra.ExactArgs(1),
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

		data, err := readPrefix(args[0])
		if err != nil {
			return err
		}
		mt, priority := db.FindByData(data)
		printMatch(cmd, mt, priority, cfg)
		return nil
	},
}

var findFileCmd = &cobra.Command{
	Use:   "find-file <path>",
	Short: "Find the best type combining filename and content, per the early-exit rule",
	Args:  cobra.ExactArgs(1),
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

		ctx := filematch.NewFileContext(args[0])
		mt, priority := db.FindByFile(ctx)
		printMatch(cmd, mt, priority, cfg)
		return nil
	},
}

// readPrefix reads up to filematch.MaxData bytes of path, mirroring the
// bound filematch.Context itself reads a candidate file's content under.
func readPrefix(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, filematch.MaxData)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func resolveLocale(cfg Config) string {
	if localeFlag != "" {
		return localeFlag
	}
	return cfg.DefaultLocale
}

func printType(cmd *cobra.Command, mt mimetype.MimeType, cfg Config) {
	if !mt.IsValid() {
		fmt.Fprintln(cmd.OutOrStdout(), "(no match)")
		return
	}
	if l := resolveLocale(cfg); l != "" {
		fmt.Fprintln(cmd.OutOrStdout(), locale.BestComment(mt, l))
	}
	fmt.Fprint(cmd.OutOrStdout(), mt.String())
}

func printMatch(cmd *cobra.Command, mt mimetype.MimeType, priority int, cfg Config) {
	if !mt.IsValid() {
		fmt.Fprintf(cmd.OutOrStdout(), "(no match), priority %d\n", priority)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (priority %d)\n", mt.Type, priority)
	printType(cmd, mt, cfg)
}
