package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabdeckError(t *testing.T) {
	err := New(ErrCodeNotFound, "user not found")
	assert.Equal(t, ErrCodeNotFound, err.Code)
	assert.Equal(t, "NOT_FOUND: user not found", err.Error())

	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeUpstream, "fetch failed")
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, Is(wrapped, ErrCodeUpstream))
	assert.False(t, Is(wrapped, ErrCodeNotFound))
	assert.Contains(t, wrapped.Error(), "caused by: underlying error")
}

func TestIsThroughFmtWrapping(t *testing.T) {
	inner := NotFound("user", "42")
	outer := fmt.Errorf("delete: %w", inner)

	assert.True(t, Is(outer, ErrCodeNotFound))
	assert.Equal(t, ErrCodeNotFound, GetCode(outer))

	te, ok := As(outer)
	require.True(t, ok)
	assert.Equal(t, "42", te.Details["id"])
}

func TestGetCodeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(fmt.Errorf("plain")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
	assert.False(t, Is(nil, ErrCodeInternal))
}

func TestConstructors(t *testing.T) {
	missing := MissingFields("user", "name", "email")
	assert.Equal(t, ErrCodeInvalidInput, missing.Code)
	assert.Equal(t, []string{"name", "email"}, missing.Details["fields"])

	big := TooLarge("video.mp4", 20, 10)
	assert.Equal(t, int64(20), big.Details["size"])

	up := Upstream("http://x/posts", 503, nil)
	assert.Equal(t, 503, up.Details["status"])
	assert.Contains(t, up.Error(), "returned 503")
}

func TestToJSON(t *testing.T) {
	out := ConfigNotFound("/tmp/tabdeck.yml").ToJSON()
	assert.True(t, strings.Contains(out, `"code": "CONFIG_NOT_FOUND"`))
	assert.True(t, strings.Contains(out, `"path": "/tmp/tabdeck.yml"`))
}
