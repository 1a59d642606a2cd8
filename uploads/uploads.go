// Package uploads simulates the upload page: files are recorded and their
// progress is advanced by the caller. No bytes are transferred.
package uploads

import (
	"math"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/tabdeck/errors"
	"github.com/moby/patternmatcher"
)

// Status of an upload.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

// DefaultMaxBytes is the exclusive upload size limit.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

const timeLayout = "2006-01-02 15:04:05"

// File is one upload.
type File struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	Status     Status `json:"status"`
	Progress   int    `json:"progress"`
	UploadedAt string `json:"uploaded_at"`
}

// Stats summarises the upload list.
type Stats struct {
	Total     int   `json:"total"`
	Done      int   `json:"done"`
	Uploading int   `json:"uploading"`
	TotalSize int64 `json:"total_size"`
}

// Manager holds uploads in the order they were added.
type Manager struct {
	mu       sync.RWMutex
	files    []File
	maxBytes int64
	accept   []string
	matcher  *patternmatcher.PatternMatcher
	now      func() time.Time
	newID    func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxBytes sets the size limit. Files of exactly max bytes are rejected.
func WithMaxBytes(max int64) Option {
	return func(m *Manager) {
		if max > 0 {
			m.maxBytes = max
		}
	}
}

// WithFiles replaces the seeded files.
func WithFiles(files []File) Option {
	return func(m *Manager) { m.files = append([]File(nil), files...) }
}

// New returns a manager seeded with the mock files. accept lists file name
// patterns in .dockerignore syntax; an empty list accepts everything.
func New(accept []string, opts ...Option) (*Manager, error) {
	m := &Manager{
		files:    Seed(),
		maxBytes: DefaultMaxBytes,
		accept:   append([]string(nil), accept...),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if len(accept) > 0 {
		pm, err := patternmatcher.New(accept)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid upload accept pattern")
		}
		m.matcher = pm
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Seed returns the mock files the page starts with.
func Seed() []File {
	return []File{
		{ID: "1", Name: "document.pdf", Size: 2048576, Type: "application/pdf", Status: StatusDone, Progress: 100, UploadedAt: "2024-03-15 10:30:00"},
		{ID: "2", Name: "image.jpg", Size: 1024000, Type: "image/jpeg", Status: StatusDone, Progress: 100, UploadedAt: "2024-03-15 09:15:00"},
		{ID: "3", Name: "video.mp4", Size: 10485760, Type: "video/mp4", Status: StatusUploading, Progress: 65, UploadedAt: "2024-03-15 11:00:00"},
	}
}

// MaxBytes returns the size limit.
func (m *Manager) MaxBytes() int64 { return m.maxBytes }

// Check reports whether a file of this name and size would be accepted.
func (m *Manager) Check(name string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return errors.MissingFields("upload", "name")
	}
	if size < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "file size cannot be negative").WithDetail("size", size)
	}
	if size >= m.maxBytes {
		return errors.TooLarge(name, size, m.maxBytes)
	}
	if m.matcher != nil {
		ok, err := m.matcher.MatchesOrParentMatches(filepath.Base(name))
		if err != nil || !ok {
			return errors.Rejected(name, m.accept)
		}
	}
	return nil
}

// Add records a new upload at 0%.
func (m *Manager) Add(name string, size int64) (File, error) {
	if err := m.Check(name, size); err != nil {
		return File{}, err
	}
	f := File{
		ID:         m.newID(),
		Name:       filepath.Base(name),
		Size:       size,
		Type:       TypeOf(name),
		Status:     StatusUploading,
		UploadedAt: m.now().Format(timeLayout),
	}

	m.mu.Lock()
	m.files = append(m.files, f)
	m.mu.Unlock()
	return f, nil
}

// Advance moves every uploading file forward by step percent and returns
// the files that changed. Files reaching 100% are done.
func (m *Manager) Advance(step int) []File {
	if step <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var changed []File
	for i := range m.files {
		f := &m.files[i]
		if f.Status != StatusUploading {
			continue
		}
		f.Progress += step
		if f.Progress >= 100 {
			f.Progress = 100
			f.Status = StatusDone
		}
		changed = append(changed, *f)
	}
	return changed
}

// Fail marks an upload as failed.
func (m *Manager) Fail(id string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return File{}, errors.NotFound("file", id)
	}
	m.files[i].Status = StatusError
	return m.files[i], nil
}

// Delete removes an upload.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return errors.NotFound("file", id)
	}
	m.files = append(m.files[:i], m.files[i+1:]...)
	return nil
}

// List returns a copy of every upload.
func (m *Manager) List() []File {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]File(nil), m.files...)
}

// Get returns the upload with id.
func (m *Manager) Get(id string) (File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.files[i], nil
	}
	return File{}, errors.NotFound("file", id)
}

// Stats counts uploads by status.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{Total: len(m.files)}
	for _, f := range m.files {
		switch f.Status {
		case StatusDone:
			s.Done++
		case StatusUploading:
			s.Uploading++
		}
		s.TotalSize += f.Size
	}
	return s
}

func (m *Manager) indexLocked(id string) int {
	for i, f := range m.files {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// TypeOf returns the MIME type for a file name, without parameters.
func TypeOf(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return "application/octet-stream"
	}
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count with up to two decimals, e.g. "1.95 MB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
