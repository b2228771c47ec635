package override

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

// Issue is an override entry MergeLenient dropped.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Merge returns the effective spec for base and payload. A nil payload
// returns base unchanged. Any offending entry rejects the payload with an
// InvalidOverrideShape error and a zero spec.
func Merge(base spec.TemplateSpec, payload *Payload) (spec.TemplateSpec, error) {
	if payload == nil {
		return base, nil
	}
	effective := base.Clone()
	if errs := apply(&effective, payload, true); len(errs) > 0 {
		return spec.TemplateSpec{}, spec.WithTemplate(errs[0], base.TemplateID)
	}
	return effective, nil
}

// MergeLenient applies every valid entry of payload and returns the rejected
// ones as issues.
func MergeLenient(base spec.TemplateSpec, payload *Payload) (spec.TemplateSpec, []Issue) {
	if payload == nil {
		return base, nil
	}
	effective := base.Clone()
	errs := apply(&effective, payload, false)
	if len(errs) == 0 {
		return effective, nil
	}
	issues := make([]Issue, len(errs))
	for i, err := range errs {
		issues[i] = Issue{Path: err.Path, Message: err.Message}
	}
	return effective, issues
}

// apply validates each entry before touching out, so a rejected entry never
// leaves a partial change behind. In strict mode it stops at the first
// rejection.
func apply(out *spec.TemplateSpec, payload *Payload, strict bool) []*spec.Error {
	var errs []*spec.Error
	reject := func(err *spec.Error) bool {
		errs = append(errs, err)
		return strict
	}

	for i, ov := range payload.Sections {
		err := checkSection(out, i, ov)
		if err == nil {
			err = checkAssetRefs(out.Assets, *ov.Index, ov.Props)
		}
		if err != nil {
			if reject(err) {
				return errs
			}
			continue
		}
		target := &out.Sections[*ov.Index]
		if target.Props == nil {
			target.Props = map[string]any{}
		}
		overlay(target.Props, spec.CloneProps(ov.Props))
	}

	for _, name := range sortedKeys(payload.Assets) {
		if !declared(out.Assets, name) {
			if reject(spec.Errorf(spec.InvalidOverrideShape, "", "assets."+name,
				"asset %q is not declared by the template", name)) {
				return errs
			}
			continue
		}
		if out.Assets.Primary == nil {
			out.Assets.Primary = map[string]string{}
		}
		out.Assets.Primary[name] = strings.TrimSpace(payload.Assets[name])
	}

	for _, name := range sortedKeys(payload.Tokens) {
		if strings.TrimSpace(name) == "" {
			if reject(spec.Errorf(spec.InvalidOverrideShape, "", "tokens", "empty token name")) {
				return errs
			}
			continue
		}
		if out.Tokens == nil {
			out.Tokens = map[string]string{}
		}
		out.Tokens[name] = payload.Tokens[name]
	}
	return errs
}

func checkSection(s *spec.TemplateSpec, entry int, ov SectionOverride) *spec.Error {
	if ov.Index == nil {
		return spec.Errorf(spec.InvalidOverrideShape, "", fmt.Sprintf("overrides.sections[%d].index", entry),
			"section overrides must name an index")
	}
	idx := *ov.Index
	if idx < 0 || idx >= len(s.Sections) {
		return spec.Errorf(spec.InvalidOverrideShape, "", fmt.Sprintf("overrides.sections[%d].index", entry),
			"index %d is out of range, template has %d sections", idx, len(s.Sections))
	}
	if want := strings.TrimSpace(ov.Type); want != "" && want != s.Sections[idx].Type {
		return spec.Errorf(spec.InvalidOverrideShape, "", spec.SectionPath(idx, "type"),
			"override targets %q but section is %q", want, s.Sections[idx].Type)
	}
	return nil
}

// checkAssetRefs rejects asset references in props that name a logical asset
// the template does not declare: the "asset" prop, the "assets" list, and the
// "asset" key of items in any list prop.
func checkAssetRefs(assets spec.Assets, idx int, props map[string]any) *spec.Error {
	undeclared := func(path string, name string) *spec.Error {
		return spec.Errorf(spec.InvalidOverrideShape, "", spec.SectionPath(idx, path),
			"asset %q is not declared by the template", name)
	}

	if name, ok := assetRef(props["asset"]); ok && !declared(assets, name) {
		return undeclared("props.asset", name)
	}
	for _, key := range sortedPropKeys(props) {
		for j, item := range listItems(props[key]) {
			if key == "assets" {
				if name, ok := assetRef(item); ok && !declared(assets, name) {
					return undeclared(fmt.Sprintf("props.assets[%d]", j), name)
				}
				continue
			}
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := assetRef(entry["asset"]); ok && !declared(assets, name) {
				return undeclared(fmt.Sprintf("props.%s[%d].asset", key, j), name)
			}
		}
	}
	return nil
}

func listItems(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	}
	return nil
}

func assetRef(value any) (string, bool) {
	name, ok := value.(string)
	if !ok {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

// overlay merges src into dst. Nested maps merge key by key; any other value
// replaces what dst held.
func overlay(dst, src map[string]any) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			overlay(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
}

func declared(assets spec.Assets, name string) bool {
	if _, ok := assets.Primary[name]; ok {
		return true
	}
	_, ok := assets.Fallback[name]
	return ok
}

func sortedPropKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
