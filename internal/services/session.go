package services

import "sync"

// Session is the transient, never persisted generator state: the ordered
// set of selected streamer ids and the active template. It is safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	selected []string
	template string
}

// NewSession returns an empty session.
func NewSession() *Session { return &Session{} }

func (s *Session) indexOf(id string) int {
	for i, v := range s.selected {
		if v == id {
			return i
		}
	}
	return -1
}

// Toggle flips id in the selection and reports whether it is now selected.
func (s *Session) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.selected = append(s.selected[:i], s.selected[i+1:]...)
		return false
	}
	s.selected = append(s.selected, id)
	return true
}

// Add selects ids that are not selected yet, keeping the existing order.
func (s *Session) Add(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if s.indexOf(id) < 0 {
			s.selected = append(s.selected, id)
		}
	}
}

// Remove deselects id.
func (s *Session) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.selected = append(s.selected[:i], s.selected[i+1:]...)
	}
}

// Replace sets the selection to ids, dropping duplicates.
func (s *Session) Replace(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make([]string, 0, len(ids))
	for _, id := range ids {
		if s.indexOf(id) < 0 {
			s.selected = append(s.selected, id)
		}
	}
}

// Clear empties the selection.
func (s *Session) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Selected returns a copy of the selected ids in selection order.
func (s *Session) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.selected...)
}

// Len returns the number of selected ids.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// Template returns the active template id ("" when none).
func (s *Session) Template() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// SetTemplate sets the active template id.
func (s *Session) SetTemplate(id string) {
	s.mu.Lock()
	s.template = id
	s.mu.Unlock()
}
