package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/sections"
	"github.com/goliatone/go-pagegen/pkg/tokens"
)

func TestGenerateProducesLoadableCatalog(t *testing.T) {
	in, err := os.Open("testdata/briefs.csv")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer in.Close()

	var out bytes.Buffer
	if err := generate(in, &out); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(out.String(), header) {
		t.Fatalf("missing generated header")
	}

	themes, err := tokens.Default()
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	registry, err := catalog.LoadFS(fstest.MapFS{
		"generated.yaml": &fstest.MapFile{Data: out.Bytes()},
	}, catalog.WithSectionCheck(sections.CheckSection), catalog.WithThemeCheck(themes.Has))
	if err != nil {
		t.Fatalf("load generated catalog: %v\n%s", err, out.String())
	}

	ids := registry.IDs()
	if len(ids) != 2 || ids[0] != "v1-saas-modern-trial" || ids[1] != "v1-local-services-classic-quote" {
		t.Fatalf("unexpected ids %v", ids)
	}

	record, err := registry.Lookup("v1-saas-modern-trial")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got := strings.Join(record.SectionTypes(), ","); got != "Hero,LogoStrip,ServiceList,FinalCTA" {
		t.Fatalf("unexpected sections %s", got)
	}
	if record.Assets.Primary["hero"] != "saas-hero-dashboard" {
		t.Fatalf("unexpected hero primary %q", record.Assets.Primary["hero"])
	}
	if record.Assets.Fallback["hero"] != "/placeholders/saas/hero.svg" {
		t.Fatalf("unexpected hero fallback %q", record.Assets.Fallback["hero"])
	}
	if len(record.Assets.Fallback) != 3 {
		t.Fatalf("expected hero plus two logo fallbacks, got %v", record.Assets.Fallback)
	}
}

func TestGenerateRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing column": "templateId,category,theme,name\nv1-x,saas,modern-light,X\n",
		"unknown section": "templateId,category,theme,name,sections,headline\n" +
			"v1-x,saas,modern-light,X,Hero;Carousel,Hi\n",
		"unknown theme": "templateId,category,theme,name,sections,headline\n" +
			"v1-x,saas,neon-light,X,Hero,Hi\n",
		"missing headline": "templateId,category,theme,name,sections\n" +
			"v1-x,saas,modern-light,X,Hero\n",
		"duplicate id": "templateId,category,theme,name,sections,headline\n" +
			"v1-x,saas,modern-light,X,Hero,Hi\nv1-x,saas,modern-light,Y,Hero,Hi\n",
		"no rows": "templateId,category,theme,name,sections\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			if err := generate(strings.NewReader(input), &out); err == nil {
				t.Fatalf("expected error, got output:\n%s", out.String())
			}
		})
	}
}
