package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindBusiness       ErrKind = "business"       // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Stable machine codes callers branch on.
const (
	CodeAdNotShownBefore = "ad_not_shown_before"
	CodeNoAdsAvailable   = "no_ads_available"
)

// ErrCacheMiss is returned by caches when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code
// - Message: safe summary for clients
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf reports the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// ----------------------
// Business rules (400)
// ----------------------

func ErrCampaignActive() *Error {
	return New(KindBusiness, "campaign_active", "cannot change schedule or limits of an active campaign")
}

func ErrCampaignInPast() *Error {
	return New(KindBusiness, "campaign_in_past", "campaign start and end must not be in the past")
}

func ErrInvalidSchedule() *Error {
	return New(KindBusiness, "invalid_schedule", "end_date must not be before start_date")
}

func ErrImageImmutable() *Error {
	return New(KindBusiness, "image_immutable", "image can only be changed through the image endpoint")
}

func ErrInvalidImageExtension(ext string) *Error {
	return WithMeta(New(KindBusiness, "invalid_image_extension", "only .jpg and .jpeg images are accepted"), map[string]string{
		"extension": ext,
	})
}

// A click arrived for a (campaign, client) pair that never had an impression.
func ErrAdNotShownBefore() *Error {
	return New(KindBusiness, CodeAdNotShownBefore, "ad was not shown to this client before")
}

// ----------------------
// Auth errors (401/403)
// ----------------------

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

func ErrRateLimited() *Error {
	return New(KindRateLimited, "rate_limited", "too many requests")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrClientNotFound() *Error {
	return New(KindNotFound, "client_not_found", "client not found")
}

func ErrAdvertiserNotFound() *Error {
	return New(KindNotFound, "advertiser_not_found", "advertiser not found")
}

func ErrCampaignNotFound() *Error {
	return New(KindNotFound, "campaign_not_found", "campaign not found")
}

func ErrNoAdsAvailable() *Error {
	return New(KindNotFound, CodeNoAdsAvailable, "no ads available")
}

// ----------------------
// Infrastructure (503/500)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrStorageUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "storage_unavailable", "image storage unavailable", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
