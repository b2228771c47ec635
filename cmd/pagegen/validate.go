package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pagegen/pkg/composer"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and compose every template once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := opts.registry()
			if err != nil {
				return err
			}
			c, err := opts.composer(registry)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, id := range registry.IDs() {
				result, err := c.Compose(cmd.Context(), composer.Request{TemplateID: id})
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", id, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%d sections, %s)\n", id, len(result.SectionTypes), result.Fingerprint[:12])
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d templates failed", failed, registry.Len())
			}
			return nil
		},
	}
}
