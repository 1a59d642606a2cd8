package posts

// Activity is an entry in the home page's recent activity list.
type Activity struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	When  string `json:"when"`
	Kind  string `json:"kind"`
}

// Stat is a headline number on the home page.
type Stat struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// Feature is a bullet on the about page.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Release is one changelog entry on the about page.
type Release struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Kind    string   `json:"kind"`
	Title   string   `json:"title"`
	Changes []string `json:"changes"`
}

// HomeStats returns the home page's headline numbers.
func HomeStats() []Stat {
	return []Stat{
		{Title: "Users", Value: 1234},
		{Title: "Files", Value: 5678},
		{Title: "Uploads", Value: 9012},
		{Title: "Visits", Value: 3456},
	}
}

// RecentActivity returns the home page's activity feed.
func RecentActivity() []Activity {
	return []Activity{
		{ID: 1, Title: "User management improvements", When: "2 hours ago", Kind: "update"},
		{ID: 2, Title: "File upload added", When: "5 hours ago", Kind: "feature"},
		{ID: 3, Title: "Faster page switching", When: "1 day ago", Kind: "improvement"},
		{ID: 4, Title: "Known issues fixed", When: "2 days ago", Kind: "fix"},
	}
}

// Features returns the about page's feature list.
func Features() []Feature {
	return []Feature{
		{Title: "Terminal first", Description: "A keyboard driven shell built on bubbletea"},
		{Title: "Tabbed pages", Description: "Every page opens in a tab; switch, close and reopen freely"},
		{Title: "Access control", Description: "Pages behind a sign-in guard, with roles per user"},
		{Title: "Session API", Description: "The tab session is scriptable over HTTP and websockets"},
	}
}

// Changelog returns the about page's release history, newest first.
func Changelog() []Release {
	return []Release{
		{Version: "v2.0.0", Date: "2024-03-15", Kind: "major", Title: "Redesign", Changes: []string{"New theme engine", "Refreshed layout", "Better keyboard handling", "Faster rendering"}},
		{Version: "v1.2.0", Date: "2024-02-01", Kind: "feature", Title: "Permissions", Changes: []string{"Role management", "Menu permissions", "User role assignment", "Route guard"}},
		{Version: "v1.1.0", Date: "2024-01-15", Kind: "feature", Title: "Tabs", Changes: []string{"Tab management", "Page caching", "Tab reordering", "Keyboard shortcuts"}},
		{Version: "v1.0.0", Date: "2024-01-01", Kind: "initial", Title: "First release", Changes: []string{"Basic layout", "Routing", "Sign-in page"}},
	}
}
