package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type listEntry struct {
	TemplateID   string   `json:"templateId"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Theme        string   `json:"theme"`
	SectionTypes []string `json:"sectionTypes"`
}

func newListCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog templates in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := opts.registry()
			if err != nil {
				return err
			}

			entries := make([]listEntry, 0, registry.Len())
			for _, id := range registry.IDs() {
				record, err := registry.Lookup(id)
				if err != nil {
					return err
				}
				entries = append(entries, listEntry{
					TemplateID:   record.TemplateID,
					Name:         record.Metadata.Name,
					Category:     record.Category,
					Theme:        record.Theme,
					SectionTypes: record.SectionTypes(),
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tTHEME\tSECTIONS")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					entry.TemplateID, entry.Name, entry.Category, entry.Theme, strings.Join(entry.SectionTypes, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
