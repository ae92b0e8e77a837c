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
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seanpm2001/playground-mimetypes/pkg/infoparser"
	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
)

func init() {
	rootCmd.AddCommand(addCmd, setMagicCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <xml-file>",
	Short: "Parse a shared-mime-info XML package file and print every type it declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var types []mimetype.MimeType
		if err := infoparser.Parse(cmd.Context(), f, func(t mimetype.MimeType) {
			types = append(types, t)
		}); err != nil {
			return err
		}
		for _, t := range types {
			fmt.Fprint(cmd.OutOrStdout(), t.String())
		}
		return nil
	},
}

var setMagicCmd = &cobra.Command{
	Use:   "set-magic <type-or-alias> <xml-file>",
	Short: "Replace a type's magic rule matchers with the ones declared in an XML snippet, for this invocation only",
	Long: `Demonstrates Database.SetMagicRuleMatchers against an in-memory
database built for this single invocation. Unlike set-suffix and
set-globs, the result is never written to the user-modified-types store:
that override format deliberately carries only comment, aliases,
subclasses, globs, and preferredSuffix (see pkg/mimedb/userdata.go), so a
magic rule change has no cross-invocation persistence story.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		db, store, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		donor, err := parseSingleMimeType(ctx, args[1])
		if err != nil {
			return err
		}
		if !db.SetMagicRuleMatchers(args[0], donor.MagicRuleMatchers()) {
			return errors.Errorf("unknown type or alias %q", args[0])
		}
		fmt.Fprint(cmd.OutOrStdout(), db.FindByType(args[0]).String())
		return nil
	},
}

func parseSingleMimeType(ctx context.Context, path string) (mimetype.MimeType, error) {
	f, err := os.Open(path)
	if err != nil {
		return mimetype.MimeType{}, err
	}
	defer f.Close()

	var got mimetype.MimeType
	err = infoparser.Parse(ctx, f, func(t mimetype.MimeType) {
		got = t
	})
	if err != nil {
		return mimetype.MimeType{}, err
	}
	if !got.IsValid() {
		return mimetype.MimeType{}, errors.Errorf("%s declares no mime-type record", path)
	}
	return got, nil
}
