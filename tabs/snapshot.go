package tabs

// Snapshot is an immutable view of the session handed to subscribers.
type Snapshot struct {
	Tabs      []Tab  `json:"tabs"`
	ActiveKey string `json:"active_key"`
	Loading   bool   `json:"loading"`
	// Seq increases by one with every state change.
	Seq uint64 `json:"seq"`
}

// Index returns the position of key in the tab list, or -1.
func (s Snapshot) Index(key string) int {
	return indexOf(s.Tabs, key)
}

// Active returns the active tab.
func (s Snapshot) Active() (Tab, bool) {
	if i := s.Index(s.ActiveKey); i >= 0 {
		return s.Tabs[i], true
	}
	return Tab{}, false
}

// Keys lists the tab keys in order.
func (s Snapshot) Keys() []string {
	keys := make([]string, len(s.Tabs))
	for i, t := range s.Tabs {
		keys[i] = t.Key
	}
	return keys
}

func indexOf(tabs []Tab, key string) int {
	for i, t := range tabs {
		if t.Key == key {
			return i
		}
	}
	return -1
}
