package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/auth"
	"github.com/grovetools/tabdeck/posts"
	"github.com/grovetools/tabdeck/tui/components"
	"github.com/grovetools/tabdeck/tui/theme"
)

type homePage struct {
	posts   []posts.Post
	err     error
	loading bool
}

func (p homePage) view(width int) string {
	t := theme.DefaultTheme

	var stats [][2]string
	for _, s := range posts.HomeStats() {
		stats = append(stats, [2]string{s.Title, strconv.Itoa(s.Value)})
	}

	var activity []string
	for _, a := range posts.RecentActivity() {
		activity = append(activity, fmt.Sprintf("%s %s", a.Title, t.Muted.Render(a.When)))
	}

	var remote string
	switch {
	case p.loading:
		remote = t.Muted.Render("Loading posts...")
	case p.err != nil:
		remote = t.Error.Render(theme.DefaultIcons.Get("error") + " " + p.err.Error())
	case len(p.posts) == 0:
		remote = t.Muted.Render("No posts")
	default:
		titles := make([]string, len(p.posts))
		for i, post := range p.posts {
			titles[i] = truncate(post.Title, width-8)
		}
		remote = components.RenderList(titles, true)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Header.Render("Welcome back"),
		"",
		components.RenderStats(stats),
		"",
		components.RenderBox("Recent activity", components.RenderList(activity, false), width),
		components.RenderBox("Latest posts", remote, width),
	)
}

func aboutView(width int) string {
	t := theme.DefaultTheme

	var features []string
	for _, f := range posts.Features() {
		features = append(features, t.Bold.Render(f.Title)+" "+t.Muted.Render(f.Description))
	}

	var releases []string
	for _, r := range posts.Changelog() {
		head := fmt.Sprintf("%s %s %s", t.Highlight.Render("v"+r.Version), t.Muted.Render(r.Date), r.Title)
		releases = append(releases, head, components.RenderList(r.Changes, false), "")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Header.Render("About tabdeck"),
		"",
		components.RenderBox("Features", components.RenderList(features, false), width),
		components.RenderBox("Changelog", strings.TrimRight(strings.Join(releases, "\n"), "\n"), width),
	)
}

func profileView(u *auth.User, width int) string {
	t := theme.DefaultTheme
	if u == nil {
		return t.Muted.Render("Not signed in")
	}
	rows := strings.Join([]string{
		components.RenderKeyValue("Name", u.Name),
		components.RenderKeyValue("Role", u.Role),
		components.RenderKeyValue("Email", u.Email),
		components.RenderKeyValue("Session", u.SessionID),
		components.RenderKeyValue("Signed in", u.SignedInAt.Format("2006-01-02 15:04")),
	}, "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Header.Render(theme.DefaultIcons.Get("profile")+" Profile"),
		"",
		components.RenderBox("", rows, width),
	)
}

func notFoundView(path string) string {
	t := theme.DefaultTheme
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Warning.Render(theme.DefaultIcons.Get("warning")+" Page not found"),
		t.Muted.Render(path),
	)
}

func truncate(s string, n int) string {
	if n <= 1 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}
