// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blast-hardcheese/json-ld/ld"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "jsonld",
		Short:   "JSON-LD context processing and expansion",
		Version: version,
	}

	rootCmd.AddCommand(expandCmd())
	rootCmd.AddCommand(compactCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func expandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand [document]",
		Short: "Expand a JSON-LD document",
		Long: `Expand a JSON-LD document to its fully-qualified form.

The document argument may be a local file path or a remote URL; a local
file is read from disk, a URL is fetched through the document loader.

Example:
  jsonld expand person.jsonld
  jsonld expand --policy strict --dedup http://example.com/person.jsonld`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policyStr, _ := cmd.Flags().GetString("policy")
			dedup, _ := cmd.Flags().GetBool("dedup")
			showWarnings, _ := cmd.Flags().GetBool("warnings")
			base, _ := cmd.Flags().GetString("base")

			policy, err := parsePolicy(policyStr)
			if err != nil {
				return err
			}

			opts := ld.NewJsonLdOptions(base)
			opts.Policy = policy
			opts.Dedup = dedup

			input, err := readInput(args[0])
			if err != nil {
				return err
			}

			proc := ld.NewJsonLdProcessor()

			if showWarnings {
				expanded, warnings, err := proc.ExpandWithWarnings(input, opts)
				if err != nil {
					return fmt.Errorf("expand: %w", err)
				}
				for _, w := range warnings {
					fmt.Fprintln(os.Stderr, "warning:", w.String())
				}
				return printJSON(expanded)
			}

			expanded, err := proc.Expand(input, opts)
			if err != nil {
				return fmt.Errorf("expand: %w", err)
			}
			return printJSON(expanded)
		},
	}

	cmd.Flags().String("policy", "standard", "undefined-term/keyword policy: relaxed, standard, strict, strictest")
	cmd.Flags().Bool("dedup", false, "remove structurally-equal top-level nodes from the result")
	cmd.Flags().Bool("warnings", false, "print non-fatal warnings to stderr")
	cmd.Flags().String("base", "", "base IRI to resolve relative references against")

	return cmd
}

func compactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact [document] [context]",
		Short: "Compact a JSON-LD document against a context",
		Long: `Compact a JSON-LD document using the given context document.

Both arguments may be local file paths or remote URLs.

Example:
  jsonld compact expanded.jsonld context.jsonld`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policyStr, _ := cmd.Flags().GetString("policy")
			base, _ := cmd.Flags().GetString("base")

			policy, err := parsePolicy(policyStr)
			if err != nil {
				return err
			}

			opts := ld.NewJsonLdOptions(base)
			opts.Policy = policy

			input, err := readInput(args[0])
			if err != nil {
				return err
			}
			context, err := readInput(args[1])
			if err != nil {
				return err
			}

			proc := ld.NewJsonLdProcessor()
			compacted, err := proc.Compact(input, context, opts)
			if err != nil {
				return fmt.Errorf("compact: %w", err)
			}
			return printJSON(compacted)
		},
	}

	cmd.Flags().String("policy", "standard", "undefined-term/keyword policy: relaxed, standard, strict, strictest")
	cmd.Flags().String("base", "", "base IRI to resolve relative references against")

	return cmd
}

func parsePolicy(s string) (ld.Policy, error) {
	switch s {
	case "", "standard":
		return ld.PolicyStandard, nil
	case "relaxed":
		return ld.PolicyRelaxed, nil
	case "strict":
		return ld.PolicyStrict, nil
	case "strictest":
		return ld.PolicyStrictest, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want relaxed, standard, strict, or strictest)", s)
	}
}

// readInput loads a JSON-LD document from a local path or a remote URL. A
// string whose first colon comes after at least one character and before
// any slash or backslash is treated as a URL and handed to the document
// loader directly by the processor; everything else is read from disk and
// unmarshalled here.
func readInput(pathOrURL string) (interface{}, error) {
	if looksLikeURL(pathOrURL) {
		return pathOrURL, nil
	}

	data, err := os.ReadFile(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pathOrURL, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pathOrURL, err)
	}
	return doc, nil
}

func looksLikeURL(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':':
			return i > 0
		case '/', '\\':
			return false
		}
	}
	return false
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
