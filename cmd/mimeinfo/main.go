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

// The mimeinfo tool looks up MIME types from a shared-mime-info database
// built from local XML package files, by name, by content, or by both,
// and lets a caller adjust filename associations for the running user.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/seanpm2001/playground-mimetypes/pkg/diag"
)

var configPath string
var localeFlag string
var verbose = pflag.BoolP("verbose", "v", false, "log SuffixConfigError diagnostics to stderr")

// sink receives the non-fatal SuffixConfigError diagnostic (§7) that
// set-suffix reports without aborting the command. Rule-construction
// warnings raised while the database loads are not routed to it.
var sink diag.Sink = diag.Nop

var rootCmd = &cobra.Command{
	Use:   "mimeinfo",
	Short: "Look up and edit MIME type associations from a shared-mime-info database",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *verbose {
			sink = diag.NewZap(nil)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a mimeinfo.yaml config file (defaults built in if omitted)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "preferred locale for comments (falls back to the config's defaultLocale)")
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
