package routes

// Guard decides where a navigation request actually lands.
type Guard interface {
	Resolve(path string) string
}

// GuardFunc adapts a function to a Guard.
type GuardFunc func(path string) string

// Resolve calls f(path).
func (f GuardFunc) Resolve(path string) string { return f(path) }

// SignedIn reports whether a user is currently signed in.
type SignedIn interface {
	SignedIn() bool
}

// RequireAuth sends anonymous users to the login page and keeps signed-in
// users out of it.
type RequireAuth struct {
	Session SignedIn
	Table   *Table
}

// Resolve implements Guard.
func (g RequireAuth) Resolve(path string) string {
	table := g.Table
	if table == nil {
		table = DefaultTable()
	}
	signedIn := g.Session != nil && g.Session.SignedIn()
	if table.IsPublic(path) {
		if signedIn && path == PathLogin {
			return PathHome
		}
		return path
	}
	if !signedIn {
		return PathLogin
	}
	return path
}
