package uploads

import (
	"testing"
	"time"

	"github.com/grovetools/tabdeck/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, accept []string, opts ...Option) *Manager {
	t.Helper()
	m, err := New(accept, opts...)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC) }
	m.newID = func() string { return "new" }
	return m
}

func TestSeed(t *testing.T) {
	m := newManager(t, nil)
	assert.Equal(t, Stats{Total: 3, Done: 2, Uploading: 1, TotalSize: 2048576 + 1024000 + 10485760}, m.Stats())
}

func TestAdd(t *testing.T) {
	m := newManager(t, nil)

	f, err := m.Add("reports/q1.pdf", 4096)
	require.NoError(t, err)
	assert.Equal(t, File{
		ID:         "new",
		Name:       "q1.pdf",
		Size:       4096,
		Type:       "application/pdf",
		Status:     StatusUploading,
		Progress:   0,
		UploadedAt: "2024-03-16 08:00:00",
	}, f)
	assert.Len(t, m.List(), 4)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		accept []string
		file   string
		size   int64
		code   errors.ErrorCode
	}{
		{name: "just under the limit", file: "a.bin", size: DefaultMaxBytes - 1},
		{name: "exactly the limit", file: "a.bin", size: DefaultMaxBytes, code: errors.ErrCodeTooLarge},
		{name: "empty name", file: " ", size: 1, code: errors.ErrCodeInvalidInput},
		{name: "negative size", file: "a.bin", size: -1, code: errors.ErrCodeInvalidInput},
		{name: "accepted pattern", accept: []string{"*.pdf", "*.jpg"}, file: "scan.jpg", size: 1},
		{name: "accepted in a directory", accept: []string{"*.pdf"}, file: "docs/scan.pdf", size: 1},
		{name: "rejected pattern", accept: []string{"*.pdf"}, file: "movie.mp4", size: 1, code: errors.ErrCodeRejected},
		{name: "negated pattern", accept: []string{"*", "!*.exe"}, file: "setup.exe", size: 1, code: errors.ErrCodeRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t, tt.accept)
			err := m.Check(tt.file, tt.size)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestWithMaxBytes(t *testing.T) {
	m := newManager(t, nil, WithMaxBytes(100))
	assert.Equal(t, int64(100), m.MaxBytes())
	_, err := m.Add("a.txt", 100)
	assert.True(t, errors.Is(err, errors.ErrCodeTooLarge))
}

func TestInvalidPattern(t *testing.T) {
	_, err := New([]string{"[a-"})
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestAdvance(t *testing.T) {
	m := newManager(t, nil)

	changed := m.Advance(20)
	require.Len(t, changed, 1)
	assert.Equal(t, 85, changed[0].Progress)
	assert.Equal(t, StatusUploading, changed[0].Status)

	changed = m.Advance(20)
	require.Len(t, changed, 1)
	assert.Equal(t, 100, changed[0].Progress)
	assert.Equal(t, StatusDone, changed[0].Status)

	assert.Empty(t, m.Advance(20))
	assert.Nil(t, m.Advance(0))
	assert.Equal(t, 3, m.Stats().Done)
}

func TestFailAndDelete(t *testing.T) {
	m := newManager(t, nil)

	f, err := m.Fail("3")
	require.NoError(t, err)
	assert.Equal(t, StatusError, f.Status)
	assert.Empty(t, m.Advance(10))

	require.NoError(t, m.Delete("1"))
	_, err = m.Get("1")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.True(t, errors.Is(m.Delete("1"), errors.ErrCodeNotFound))

	_, err = m.Fail("missing")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "application/pdf", TypeOf("a.PDF"))
	assert.Equal(t, "image/jpeg", TypeOf("photo.jpg"))
	assert.Equal(t, "text/html", TypeOf("index.html"))
	assert.Equal(t, "application/octet-stream", TypeOf("README"))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1024000, "1000 KB"},
		{2048576, "1.95 MB"},
		{10485760, "10 MB"},
		{3 * 1024 * 1024 * 1024, "3 GB"},
		{5 * 1024 * 1024 * 1024 * 1024, "5120 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%d)", tt.in)
	}
}
