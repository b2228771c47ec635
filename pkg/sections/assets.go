package sections

import (
	"github.com/goliatone/go-pagegen/pkg/assets"
	"github.com/goliatone/go-pagegen/pkg/spec"
)

// AssetNames lists the logical asset names a section references, in prop
// order and without duplicates: the "asset" prop, the "assets" list, then the
// "asset" key of each repeated item.
func AssetNames(kind Kind, props map[string]any) []string {
	var names []string
	seen := map[string]struct{}{}
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	add(propString(props, "asset"))
	for _, name := range propStrings(props, "assets") {
		add(name)
	}
	if key := kindTable[kind].listKey; key != "" {
		for _, item := range propList(props, key) {
			add(propString(item, "asset"))
		}
	}
	return names
}

func image(in Input, name, alt string) (map[string]any, error) {
	if name == "" {
		return nil, nil
	}
	resolved, ok := in.Assets[name]
	if !ok {
		return nil, spec.Errorf(spec.AssetResolutionFailure, "", spec.SectionPath(in.Index, "props"),
			"asset %q was not resolved", name)
	}
	if alt == "" {
		alt = resolved.Alt
	}
	return imageView(resolved, alt), nil
}

func imageView(resolved assets.Resolved, alt string) map[string]any {
	return map[string]any{
		"url":        resolved.URL,
		"alt":        alt,
		"attrs":      resolved.Attrs(),
		"provenance": string(resolved.Provenance),
	}
}
