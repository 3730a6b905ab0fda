package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

var v = newValidator()

func newValidator() *validator.Validate {
	vv := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	vv.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return vv
}

// DecodeJSON decodes exactly one JSON value and rejects unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidJSON(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.ErrInvalidJSON(errors.New("multiple JSON values"))
	}
	return nil
}

// Struct runs the validate tags of s and reports the first failure as a
// validation error naming the field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return domain.ErrInvalidField("body", err.Error())
	}
	fe := ves[0]
	field := fieldPath(fe)
	if fe.Tag() == "required" {
		return domain.ErrMissingField(field)
	}
	return domain.ErrInvalidField(field, formatFieldError(fe))
}

// Var validates a single value, e.g. a query parameter.
func Var(field string, value any, tag string) error {
	if err := v.Var(value, tag); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			if ves[0].Tag() == "required" {
				return domain.ErrMissingField(field)
			}
			return domain.ErrInvalidField(field, formatFieldError(ves[0]))
		}
		return domain.ErrInvalidField(field, err.Error())
	}
	return nil
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// fieldPath turns a validator namespace into a JSON path. The root struct
// name and embedded struct names (Go identifiers) are dropped, so
// "CampaignUpdateRequest.CampaignCreateRequest.targeting.age_from" becomes
// "targeting.age_from".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 || (p != "" && unicode.IsUpper(rune(p[0]))) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "uuid", "uuid4":
		return "must be a UUID"
	case "gte", "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", fe.Param())
	case "dive":
		return "invalid element"
	default:
		return "is invalid"
	}
}
