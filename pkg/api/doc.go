// Package api exposes the composer over JSON HTTP routes.
//
// Every request is checked against the embedded OpenAPI description before it
// reaches a handler. Composition failures are converted into go-errors
// categories and then into status codes:
//
//	TemplateNotFound                          -> 404
//	InvalidOverrideShape, malformed requests  -> 400
//	UnknownSectionType, AssetResolutionFailure,
//	CatalogInvalid and anything unexpected    -> 500
//
// Error bodies use the envelope {"error": {"code", "category", "message"}}.
package api
