// Package sections renders the closed set of v1 section kinds.
//
// Every kind pairs a pongo2 fragment template with a stylesheet scoped by the
// kind's class (".v1-hero", ".v1-logo-strip", ...). Rendering is a pure
// function of the section props and the assets already resolved for it, so a
// single Renderer can serve any number of concurrent compositions.
//
// Markdown-capable props (body, quote, description) are converted with
// goldmark and sanitised with bluemonday before they reach the template;
// every other prop is auto-escaped by the template engine.
package sections
