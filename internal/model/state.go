package model

// User is an immutable user record returned by fetch operations. The core
// enforces no uniqueness: concatenating fetch results may repeat IDs.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UIState is a snapshot of what the view layer should render. It is never
// mutated in place: every update derives a new snapshot from the previous one
// so concurrent readers cannot observe a torn state.
type UIState struct {
	IsLoading    bool   `json:"is_loading"`
	Users        []User `json:"users"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// WithLoading derives a snapshot marked as in flight. Users and any prior
// error message are carried over unchanged.
func (s UIState) WithLoading() UIState {
	s.IsLoading = true
	return s
}

// WithUsers derives a terminal success snapshot: loading cleared, error
// cleared, users replaced. The slice is copied so the snapshot does not alias
// the caller's backing array.
func (s UIState) WithUsers(users []User) UIState {
	s.IsLoading = false
	s.ErrorMessage = ""
	s.Users = append([]User(nil), users...)
	return s
}

// WithError derives a terminal failure snapshot: loading cleared, message set.
func (s UIState) WithError(message string) UIState {
	s.IsLoading = false
	s.ErrorMessage = message
	return s
}

// WithIdle derives a snapshot with loading cleared and everything else kept.
func (s UIState) WithIdle() UIState {
	s.IsLoading = false
	return s
}
