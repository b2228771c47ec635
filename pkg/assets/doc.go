// Package assets maps logical asset names declared by a template onto URLs.
//
// A template lists, per logical name, a primary (demo) identifier and a
// static fallback path. The resolver prefers the primary identifier and falls
// back to the placeholder path when the primary is empty. A configured stock
// manifest only supplies the stored path and alt text of known identifiers.
// Every resolution carries its
// provenance so rendered markup can be traced back to demo or placeholder
// media.
package assets
