// Package tokens resolves the design tokens a template theme contributes to a
// composed page. Themes are go-theme manifests keyed by family, with one
// variant per colour scheme; a catalog theme reference such as
// "modern-light" selects family "modern" and variant "light".
//
// The resolved set is emitted as CSS custom properties inside a single
// :root rule so section stylesheets can stay theme agnostic.
package tokens
