package api

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

const (
	codeTemplateNotFound   = "TEMPLATE_NOT_FOUND"
	codeInvalidOverride    = "INVALID_OVERRIDE"
	codeUnknownSectionType = "UNKNOWN_SECTION_TYPE"
	codeAssetResolution    = "ASSET_RESOLUTION_FAILED"
	codeCatalogInvalid     = "CATALOG_INVALID"
	codeInvalidRequest     = "INVALID_REQUEST"
	codeInternal           = "INTERNAL_ERROR"
)

// classify wraps err with the go-errors category and text code matching its
// composition kind. Errors that are already wrapped pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	switch spec.KindOf(err) {
	case spec.TemplateNotFound:
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "template not found").
			WithTextCode(codeTemplateNotFound)
	case spec.InvalidOverrideShape:
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid overrides").
			WithTextCode(codeInvalidOverride)
	case spec.UnknownSectionType:
		return goerrors.Wrap(err, goerrors.CategoryInternal, "template uses an unknown section type").
			WithTextCode(codeUnknownSectionType)
	case spec.AssetResolutionFailure:
		return goerrors.Wrap(err, goerrors.CategoryInternal, "template asset could not be resolved").
			WithTextCode(codeAssetResolution)
	case spec.CatalogInvalid:
		return goerrors.Wrap(err, goerrors.CategoryInternal, "template catalog is invalid").
			WithTextCode(codeCatalogInvalid)
	default:
		return goerrors.Wrap(err, goerrors.CategoryInternal, "internal error").
			WithTextCode(codeInternal)
	}
}

func badRequest(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, message).
		WithTextCode(codeInvalidRequest)
}

func statusFor(err error) int {
	switch {
	case goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return http.StatusNotFound
	case goerrors.IsCategory(err, goerrors.CategoryBadInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// envelope renders the public error body. Caller errors carry the underlying
// detail so clients can fix their input; server errors only expose the
// summary message.
func envelope(err error, status int) errorBody {
	detail := errorDetail{
		Code:     codeInternal,
		Category: string(goerrors.CategoryInternal),
		Message:  "internal error",
	}

	var wrapped *goerrors.Error
	if errors.As(err, &wrapped) && wrapped != nil {
		detail.Code = wrapped.TextCode
		detail.Category = string(wrapped.Category)
		detail.Message = wrapped.Message
		if cause := errors.Unwrap(wrapped); cause != nil && status < http.StatusInternalServerError {
			detail.Message = wrapped.Message + ": " + cause.Error()
		}
	}
	return errorBody{Error: detail}
}
