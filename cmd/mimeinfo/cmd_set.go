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
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seanpm2001/playground-mimetypes/pkg/glob"
)

func init() {
	rootCmd.AddCommand(setSuffixCmd, setGlobsCmd)
}

var setSuffixCmd = &cobra.Command{
	Use:   "set-suffix <type-or-alias> <suffix>",
	Short: "Set a type's preferred suffix and persist the override for the running user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		base, err := loadBaseDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		db, store, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if !db.SetPreferredSuffix(args[0], args[1]) {
			sink.Warnf("set-suffix %s: %q is not a suffix of any of its glob patterns", args[0], args[1])
			return errors.Errorf("%q is not among %s's derived suffixes", args[1], args[0])
		}
		if err := db.WriteUserModifiedMimeTypes(store, base); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: preferred suffix set to %s\n", args[0], args[1])
		return nil
	},
}

var setGlobsCmd = &cobra.Command{
	Use:   "set-globs <type-or-alias> <pattern[:weight]>...",
	Short: "Replace a type's glob patterns and persist the override for the running user",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		base, err := loadBaseDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		db, store, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		patterns, err := parseGlobArgs(args[1:])
		if err != nil {
			return err
		}
		if !db.SetGlobPatterns(args[0], patterns) {
			return errors.Errorf("unknown type or alias %q", args[0])
		}
		if err := db.WriteUserModifiedMimeTypes(store, base); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: glob patterns replaced\n", args[0])
		return nil
	},
}

// parseGlobArgs turns "*.txt" or "*.txt:80" style CLI arguments into
// compiled glob.Pattern values, defaulting to glob.DefaultWeight when no
// weight is given.
func parseGlobArgs(args []string) ([]glob.Pattern, error) {
	out := make([]glob.Pattern, 0, len(args))
	for _, a := range args {
		pattern, weight := a, glob.DefaultWeight
		if i := strings.LastIndex(a, ":"); i >= 0 {
			w, err := strconv.Atoi(a[i+1:])
			if err != nil {
				return nil, errors.Wrapf(err, "glob weight in %q", a)
			}
			pattern, weight = a[:i], w
		}
		gp, err := glob.Compile(pattern, weight)
		if err != nil {
			return nil, errors.Wrapf(err, "glob pattern %q", pattern)
		}
		out = append(out, gp)
	}
	return out, nil
}
