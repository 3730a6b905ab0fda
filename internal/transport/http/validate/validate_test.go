package validate

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

type inner struct {
	AgeFrom *int `json:"age_from" validate:"omitempty,gte=0"`
}

type sample struct {
	ID    string `json:"id" validate:"required,uuid"`
	Count int    `json:"count" validate:"gte=0"`
	Kind  string `json:"kind" validate:"omitempty,oneof=MALE FEMALE"`
	Inner *inner `json:"inner" validate:"omitempty"`
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID(""))
}

func TestDecodeJSON(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"id":"x","count":2}`))
		var dst sample
		require.NoError(t, DecodeJSON(req, &dst))
		assert.Equal(t, 2, dst.Count)
	})

	t.Run("unknown_field", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"id":"x","extra":true}`))
		var dst sample
		assert.True(t, domain.Is(DecodeJSON(req, &dst), "invalid_json"))
	})

	t.Run("trailing_value", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{}{}`))
		var dst sample
		assert.True(t, domain.Is(DecodeJSON(req, &dst), "invalid_json"))
	})

	t.Run("broken", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"id":`))
		var dst sample
		assert.True(t, domain.Is(DecodeJSON(req, &dst), "invalid_json"))
	})
}

func fieldOf(t *testing.T, err error) (string, map[string]string) {
	t.Helper()
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	return de.Code, de.Meta
}

func TestStruct(t *testing.T) {
	ok := sample{ID: "550e8400-e29b-41d4-a716-446655440000"}
	require.NoError(t, Struct(ok))

	code, meta := fieldOf(t, Struct(sample{}))
	assert.Equal(t, "missing_field", code)
	assert.Equal(t, "id", meta["field"])

	code, meta = fieldOf(t, Struct(sample{ID: "nope"}))
	assert.Equal(t, "invalid_field", code)
	assert.Equal(t, "id", meta["field"])
	assert.Equal(t, "must be a UUID", meta["reason"])

	bad := ok
	bad.Kind = "OTHER"
	_, meta = fieldOf(t, Struct(bad))
	assert.Equal(t, "kind", meta["field"])

	neg := -1
	nested := ok
	nested.Inner = &inner{AgeFrom: &neg}
	_, meta = fieldOf(t, Struct(nested))
	assert.Equal(t, "inner.age_from", meta["field"])
	assert.Equal(t, "must be at least 0", meta["reason"])
}

func TestVar(t *testing.T) {
	require.NoError(t, Var("client_id", "550e8400-e29b-41d4-a716-446655440000", "required,uuid"))

	code, meta := fieldOf(t, Var("client_id", "", "required,uuid"))
	assert.Equal(t, "missing_field", code)
	assert.Equal(t, "client_id", meta["field"])

	code, _ = fieldOf(t, Var("client_id", "abc", "required,uuid"))
	assert.Equal(t, "invalid_field", code)
}

type Base struct {
	Title string `json:"ad_title" validate:"required"`
}

type extended struct {
	Base
	Extra *string `json:"extra"`
}

func TestStruct_EmbeddedFieldPath(t *testing.T) {
	code, meta := fieldOf(t, Struct(extended{}))
	assert.Equal(t, "missing_field", code)
	assert.Equal(t, "ad_title", meta["field"])
}
