package main

import (
	"github.com/spf13/cobra"

	"github.com/JackWReid/redline/internal/stats"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Print document statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			text, err := readInput(name)
			if err != nil {
				return err
			}

			s := stats.Compute(text)
			cmd.Printf("words        %d\n", s.Words)
			cmd.Printf("characters   %d\n", s.Characters)
			cmd.Printf("sentences    %d\n", s.Sentences)
			cmd.Printf("paragraphs   %d\n", s.Paragraphs)
			cmd.Printf("reading      %.1f min\n", s.ReadingTime)
			cmd.Printf("speaking     %.1f min\n", s.SpeakingTime)
			cmd.Printf("readability  %d\n", s.Readability)
			return nil
		},
	}
}
