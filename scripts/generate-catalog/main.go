// Command generate-catalog turns a CSV table of landing-page briefs into
// catalog YAML records. Every generated record is checked with the same
// rules the catalog loader applies before anything is written.
//
//	go run ./scripts/generate-catalog -input briefs.csv -output pkg/catalog/templates/90-generated.yaml
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagegen/pkg/sections"
	"github.com/goliatone/go-pagegen/pkg/spec"
	"github.com/goliatone/go-pagegen/pkg/tokens"
)

const header = "# Code generated by scripts/generate-catalog. DO NOT EDIT.\n"

var requiredColumns = []string{"templateId", "category", "theme", "name", "sections"}

func main() {
	var (
		inputPath  = flag.String("input", "scripts/generate-catalog/testdata/briefs.csv", "CSV file with one template per row")
		outputPath = flag.String("output", "", "output YAML file (stdout if empty)")
	)
	flag.Parse()

	in, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer in.Close()

	var out bytes.Buffer
	if err := generate(in, &out); err != nil {
		log.Fatalf("generate catalog: %v", err)
	}

	if *outputPath == "" {
		fmt.Print(out.String())
		return
	}
	if err := os.WriteFile(*outputPath, out.Bytes(), 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("Catalog written to %s\n", *outputPath)
}

type catalogFile struct {
	Templates []spec.TemplateSpec `yaml:"templates"`
}

func generate(r io.Reader, w io.Writer) error {
	rows, err := readRows(r)
	if err != nil {
		return err
	}
	themes, err := tokens.Default()
	if err != nil {
		return err
	}

	file := catalogFile{}
	seen := map[string]int{}
	for idx, row := range rows {
		line := idx + 2
		record, err := buildRecord(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		if previous, ok := seen[record.TemplateID]; ok {
			return fmt.Errorf("row %d: template %q already defined on row %d", line, record.TemplateID, previous)
		}
		seen[record.TemplateID] = line

		if err := record.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		if !themes.Has(record.Theme) {
			return fmt.Errorf("row %d: unknown theme %q", line, record.Theme)
		}
		for sectionIdx, section := range record.Sections {
			if err := sections.CheckSection(sectionIdx, section); err != nil {
				return fmt.Errorf("row %d: %w", line, spec.WithTemplate(err, record.TemplateID))
			}
		}
		file.Templates = append(file.Templates, record)
	}
	if len(file.Templates) == 0 {
		return errors.New("input has no rows")
	}

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}

func readRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("input is empty")
	}

	columns := records[0]
	for idx := range columns {
		columns[idx] = strings.TrimSpace(columns[idx])
	}
	for _, required := range requiredColumns {
		if !contains(columns, required) {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(columns))
		for idx, column := range columns {
			if idx < len(record) {
				row[column] = strings.TrimSpace(record[idx])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildRecord(row map[string]string) (spec.TemplateSpec, error) {
	category := row["category"]
	record := spec.TemplateSpec{
		TemplateID: row["templateId"],
		Version:    spec.Version,
		Category:   category,
		Goal:       row["goal"],
		Theme:      row["theme"],
		Metadata: spec.Metadata{
			Name:        row["name"],
			Description: row["description"],
			Tags:        splitList(row["tags"]),
		},
		Assets: spec.Assets{
			Primary:  map[string]string{},
			Fallback: map[string]string{},
		},
	}
	fallback := func(name string) string {
		return spec.FallbackPrefix(category) + name + ".svg"
	}
	cta := map[string]any{"label": row["ctaLabel"], "href": defaultString(row["ctaHref"], "#contact")}

	for _, rawType := range splitList(row["sections"]) {
		kind, err := sections.ParseKind(rawType)
		if err != nil {
			return spec.TemplateSpec{}, err
		}

		props := map[string]any{}
		switch kind {
		case sections.Hero:
			props["headline"] = row["headline"]
			if sub := row["subheadline"]; sub != "" {
				props["subheadline"] = sub
			}
			if row["ctaLabel"] != "" {
				props["cta"] = cta
			}
			props["asset"] = "hero"
			record.Assets.Primary["hero"] = row["heroImage"]
			record.Assets.Fallback["hero"] = fallback("hero")
		case sections.LogoStrip:
			props["title"] = defaultString(row["logosTitle"], "Trusted by")
			var logos []any
			for _, name := range splitList(row["logos"]) {
				asset := "logo-" + slugify(name)
				logos = append(logos, map[string]any{"name": name, "asset": asset})
				record.Assets.Primary[asset] = ""
				record.Assets.Fallback[asset] = fallback("logo")
			}
			props["logos"] = logos
		case sections.ServiceList:
			props["title"] = defaultString(row["servicesTitle"], "What we do")
			var items []any
			for _, entry := range splitList(row["services"]) {
				title, description, _ := strings.Cut(entry, ":")
				item := map[string]any{"title": strings.TrimSpace(title)}
				if description = strings.TrimSpace(description); description != "" {
					item["description"] = description
				}
				items = append(items, item)
			}
			props["items"] = items
		case sections.Testimonials:
			props["title"] = defaultString(row["testimonialsTitle"], "What clients say")
			var items []any
			for _, entry := range splitList(row["testimonials"]) {
				parts := strings.Split(entry, "|")
				item := map[string]any{"quote": strings.TrimSpace(parts[0])}
				if len(parts) > 1 {
					item["author"] = strings.TrimSpace(parts[1])
				}
				if len(parts) > 2 {
					item["role"] = strings.TrimSpace(parts[2])
				}
				items = append(items, item)
			}
			props["items"] = items
		case sections.FinalCTA:
			props["headline"] = defaultString(row["closingHeadline"], row["headline"])
			props["cta"] = cta
		}
		record.Sections = append(record.Sections, spec.Section{Type: kind.String(), Props: props})
	}
	return record, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func slugify(value string) string {
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		return normalized
	}
	return strings.ToLower(strings.Join(strings.Fields(value), "-"))
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
