package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JackWReid/redline/internal/backend"
	"github.com/JackWReid/redline/internal/suggest"
)

// newCheckCmd builds the proofread command: analyse one or more files (or
// stdin) and either list suggestions or apply them all in place.
func newCheckCmd(opts *rootOptions) *cobra.Command {
	var apply bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Proofread documents and list or apply suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := opts.provider()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				text, err := readInput("")
				if err != nil {
					return err
				}
				return checkOne(cmd.Context(), cmd, provider, opts, "<stdin>", text, strict, apply, nil)
			}

			// Files are independent; check them concurrently but keep the
			// output serialized.
			var outMu sync.Mutex
			g, ctx := errgroup.WithContext(cmd.Context())
			for _, name := range args {
				name := name
				g.Go(func() error {
					text, err := os.ReadFile(name)
					if err != nil {
						return err
					}
					return checkOne(ctx, cmd, provider, opts, name, string(text), strict, apply, &outMu)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "apply every suggestion and write the file back")
	cmd.Flags().BoolVar(&strict, "strict", false, "skip style and clarity suggestions")
	return cmd
}

func checkOne(ctx context.Context, cmd *cobra.Command, provider backend.Provider, opts *rootOptions, name, text string, strict, apply bool, outMu *sync.Mutex) error {
	res, err := provider.Proofread(ctx, backend.Request{
		Tool:   backend.ToolProofread,
		Text:   text,
		Strict: strict,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	sugs := suggest.Validate(res.Suggestions, text, strict)
	opts.log.Debug("checked document",
		zap.String("file", name),
		zap.Int("candidates", len(res.Suggestions)),
		zap.Int("suggestions", len(sugs)),
	)

	if outMu != nil {
		outMu.Lock()
		defer outMu.Unlock()
	}

	if apply {
		fixed, applied := suggest.ApplyAll(text, sugs)
		if name != "<stdin>" {
			if err := os.WriteFile(name, []byte(fixed), 0644); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			cmd.Printf("%s: applied %d of %d suggestions\n", name, len(applied), len(sugs))
			return nil
		}
		cmd.Print(fixed)
		return nil
	}

	if len(sugs) == 0 {
		cmd.Printf("%s: no suggestions\n", name)
		return nil
	}
	for _, s := range sugs {
		cmd.Printf("%s:%d-%d [%s] %q -> %q  %s\n", name, s.Start, s.End, s.Kind, s.Original, s.Replacement, s.Message)
	}
	return nil
}
