package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pagegen "github.com/goliatone/go-pagegen"
	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/composer"
	"github.com/goliatone/go-pagegen/pkg/override"
	"github.com/goliatone/go-pagegen/pkg/spec"
)

type composeOptions struct {
	overridesPath string
	output        string
	lenient       bool
	interactive   bool
}

func newComposeCommand(opts *globalOptions, prompter Prompter) *cobra.Command {
	co := &composeOptions{}

	cmd := &cobra.Command{
		Use:   "compose [templateId]",
		Short: "Compose a template into a self-contained HTML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := opts.registry()
			if err != nil {
				return err
			}

			templateID := ""
			if len(args) == 1 {
				templateID = strings.TrimSpace(args[0])
			}

			payload, err := readOverrides(co.overridesPath)
			if err != nil {
				return err
			}

			if co.interactive {
				templateID, payload, err = promptCompose(prompter, registry, templateID, payload)
				if err != nil {
					return err
				}
			}
			if templateID == "" {
				return errors.New("a template id is required (or use --interactive)")
			}

			c, err := opts.composer(registry, composer.WithLenientOverrides(co.lenient))
			if err != nil {
				return err
			}
			result, err := c.Compose(cmd.Context(), composer.Request{TemplateID: templateID, Overrides: payload})
			if err != nil {
				return err
			}

			for _, issue := range result.Issues {
				fmt.Fprintf(cmd.ErrOrStderr(), "dropped override %s\n", issue)
			}

			if co.output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), result.HTML)
				return err
			}
			if err := os.WriteFile(co.output, []byte(result.HTML), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s written to %s (%d sections)\n", result.TemplateID, co.output, len(result.SectionTypes))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&co.overridesPath, "overrides", "", "JSON or JSONC override document")
	flags.StringVarP(&co.output, "output", "o", "", "output file (stdout if empty)")
	flags.BoolVar(&co.lenient, "lenient", false, "drop invalid overrides instead of failing")
	flags.BoolVarP(&co.interactive, "interactive", "i", false, "pick the template and common overrides with prompts")
	return cmd
}

func readOverrides(path string) (*override.Payload, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	return pagegen.ParseOverrides(raw)
}

// promptCompose asks for the template (unless already given), the hero
// headline and the primary color.
func promptCompose(p Prompter, registry *catalog.Registry, templateID string, payload *override.Payload) (string, *override.Payload, error) {
	if templateID == "" {
		ids := registry.IDs()
		if len(ids) == 0 {
			return "", nil, errors.New("catalog is empty")
		}
		labels := make([]string, len(ids))
		for idx, id := range ids {
			labels[idx] = id
			if record, err := registry.Lookup(id); err == nil && record.Metadata.Name != "" {
				labels[idx] = id + " (" + record.Metadata.Name + ")"
			}
		}
		choice, err := p.Select("Template", labels)
		if err != nil {
			return "", nil, err
		}
		templateID = ids[choice]
	}

	record, err := registry.Lookup(templateID)
	if err != nil {
		return "", nil, err
	}
	if payload == nil {
		payload = &override.Payload{}
	}

	if idx := heroIndex(record); idx >= 0 {
		current, _ := record.Sections[idx].Props["headline"].(string)
		headline, err := p.Input("Hero headline", current)
		if err != nil {
			return "", nil, err
		}
		if headline = strings.TrimSpace(headline); headline != "" && headline != current {
			payload.Sections = append(payload.Sections, override.At(idx, map[string]any{"headline": headline}))
		}
	}

	color, err := p.Input("Primary color (blank keeps the theme default)", "")
	if err != nil {
		return "", nil, err
	}
	if color = strings.TrimSpace(color); color != "" {
		if payload.Tokens == nil {
			payload.Tokens = map[string]string{}
		}
		payload.Tokens["color-primary"] = color
	}

	if payload.Empty() {
		return templateID, nil, nil
	}
	return templateID, payload, nil
}

func heroIndex(record spec.TemplateSpec) int {
	for idx, section := range record.Sections {
		if section.Type == "Hero" {
			return idx
		}
	}
	return -1
}
