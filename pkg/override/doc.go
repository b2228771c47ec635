// Package override applies caller supplied overrides to a template
// specification.
//
// Overrides can change section props, swap the primary identifier of an
// asset the template already declares, and adjust design tokens. They can
// never add, remove or reorder sections or assets. Sections are addressed by
// index; an optional type acts as a guard against addressing the wrong
// section.
//
// Merge is strict and rejects the whole payload on the first offending entry.
// MergeLenient applies every valid entry and reports the rest as issues.
package override
