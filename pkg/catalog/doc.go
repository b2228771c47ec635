// Package catalog holds the registry of v1 template specifications.
//
// A registry is built once from catalog files (YAML or JSON, each holding a
// "templates" list) and never changes afterwards, so it can be shared by any
// number of concurrent compositions without locking. Loading fails fast:
// duplicate identifiers, malformed records and, when checkers are supplied,
// unknown section types or themes abort construction instead of surfacing
// later as broken pages.
package catalog
