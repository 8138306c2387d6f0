package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// knownTools is what the hosted backend accepts; the flag help lists them but
// unknown names are passed through so new tools need no CLI release.
var knownTools = []string{
	"rewrite", "paraphrase", "humanize", "detect-ai", "fact-check",
	"find-citations", "grade", "reader-reactions", "chat",
}

func newToolCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tool <name> [file]",
		Short: fmt.Sprintf("Run a backend tool (%v) and print its JSON result", knownTools),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			text, err := readInput(name)
			if err != nil {
				return err
			}

			provider, err := opts.provider()
			if err != nil {
				return err
			}
			raw, err := provider.RunTool(cmd.Context(), args[0], text, nil)
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				cmd.Println(string(raw))
				return nil
			}
			cmd.Println(pretty.String())
			return nil
		},
	}
}
