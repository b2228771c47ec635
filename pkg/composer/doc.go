// Package composer turns a template identifier plus optional overrides into a
// complete, self-contained HTML document.
//
// Composition looks the template up, merges overrides, resolves design tokens,
// then renders every section (resolving its assets first) and assembles the
// fragments in declared order inside a document shell. All styling is inlined.
// The output carries a root marker (class "v1-root" with template, version
// and fingerprint attributes) and a pair of comments around the design-token
// block so callers and editors can verify provenance.
//
// A Composer is immutable after New and safe for concurrent use. Composition
// either returns a full document or an error; partial documents are never
// produced.
package composer
