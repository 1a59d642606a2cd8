package shell

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/tui/components"
	"github.com/grovetools/tabdeck/tui/components/table"
	"github.com/grovetools/tabdeck/tui/theme"
	"github.com/grovetools/tabdeck/uploads"
)

// sampleFiles are offered in turn by the new-upload key.
var sampleFiles = []struct {
	name string
	size int64
}{
	{"quarterly-report.pdf", 2_457_600},
	{"team-photo.png", 845_000},
	{"meeting-notes.txt", 12_288},
	{"backup.iso", 734_003_200},
	{"sketch.psd", 6_291_456},
}

type uploadPage struct {
	cursor int
	next   int
}

func (p *uploadPage) update(m *Model, msg tea.KeyMsg) tea.Cmd {
	mgr := m.deps.Uploads
	files := mgr.List()
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(files)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Upload):
		sample := sampleFiles[p.next%len(sampleFiles)]
		p.next++
		f, err := mgr.Add(sample.name, sample.size)
		if err != nil {
			m.setStatus("", err)
			return nil
		}
		m.setStatus("Uploading "+f.Name, nil)
		p.cursor = len(files)
		return m.startUploads()
	case key.Matches(msg, keys.Fail):
		if p.cursor < len(files) && files[p.cursor].Status == uploads.StatusUploading {
			if _, err := mgr.Fail(files[p.cursor].ID); err != nil {
				m.setStatus("", err)
			}
		}
	case key.Matches(msg, keys.Delete):
		if p.cursor < len(files) {
			if err := mgr.Delete(files[p.cursor].ID); err != nil {
				m.setStatus("", err)
				return nil
			}
			if p.cursor > 0 && p.cursor == len(files)-1 {
				p.cursor--
			}
		}
	}
	return nil
}

func (p *uploadPage) view(m *Model, width int) string {
	t := theme.DefaultTheme
	mgr := m.deps.Uploads

	s := mgr.Stats()
	stats := components.RenderStats([][2]string{
		{"Files", strconv.Itoa(s.Total)},
		{"Done", strconv.Itoa(s.Done)},
		{"Uploading", strconv.Itoa(s.Uploading)},
		{"Total size", uploads.FormatSize(s.TotalSize)},
	})

	files := mgr.List()
	rows := make([][]string, len(files))
	for i, f := range files {
		progress := theme.RenderStatus(string(f.Status), string(f.Status))
		if f.Status == uploads.StatusUploading {
			progress = components.RenderProgress(f.Progress, 20)
		}
		rows[i] = []string{theme.DefaultIcons.Get("file") + " " + f.Name, uploads.FormatSize(f.Size), f.Type, progress, f.UploadedAt}
	}

	body := t.Muted.Render("No files")
	if len(rows) > 0 {
		body = table.SelectableTable([]string{"Name", "Size", "Type", "Progress", "Uploaded"}, rows, p.cursor)
	}
	hint := t.Muted.Render(fmt.Sprintf("n new upload, f fail, d delete. Files must be under %s.", uploads.FormatSize(mgr.MaxBytes())))
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Header.Render(theme.DefaultIcons.Get("upload")+" Upload"),
		"",
		stats,
		hint,
		body,
	)
}
