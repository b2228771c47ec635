// Package spec defines the v1 template specification records that feed the
// composition engine: ordered sections with property bags, the primary and
// fallback asset tables, default form metadata and catalog display metadata.
// It also owns the error kinds shared by the catalog, merger, resolver,
// section renderers and composer so callers can match failures with
// errors.Is regardless of which stage produced them.
package spec
