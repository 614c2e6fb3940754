package evaluator

import (
	"sort"

	"github.com/rs/zerolog"
)

// Frame maps names to stored values. Values are returned by pointer, so a
// mutation through one reference is seen by every holder.
type Frame struct {
	store map[string]*Value
	depth int
}

func newFrame(depth int) *Frame {
	return &Frame{store: make(map[string]*Value), depth: depth}
}

// Get returns the value bound to name in this frame only.
func (f *Frame) Get(name string) (*Value, bool) {
	v, ok := f.store[name]
	return v, ok
}

// Set binds name in this frame.
func (f *Frame) Set(name string, v *Value) {
	f.store[name] = v
}

// Depth is 0 for the global frame.
func (f *Frame) Depth() int {
	return f.depth
}

// Names returns the names bound in this frame, sorted.
func (f *Frame) Names() []string {
	names := make([]string, 0, len(f.store))
	for name := range f.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scopes is the scope chain: a stack of frames with the innermost last.
// The global frame at the bottom is never popped.
type Scopes struct {
	frames []*Frame
	log    zerolog.Logger
}

// NewScopes creates a chain holding only the global frame.
func NewScopes(log zerolog.Logger) *Scopes {
	return &Scopes{frames: []*Frame{newFrame(0)}, log: log}
}

// Push stacks a new empty frame and returns it.
func (s *Scopes) Push() *Frame {
	f := newFrame(len(s.frames))
	s.frames = append(s.frames, f)
	s.log.Trace().Int("depth", f.depth).Msg("push")
	return f
}

// Pop discards the innermost frame.
func (s *Scopes) Pop() {
	if len(s.frames) == 1 {
		return
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	s.log.Trace().Int("depth", len(s.frames)).Msg("pop")
}

// Depth returns the number of pushed frames above the global one.
func (s *Scopes) Depth() int {
	return len(s.frames) - 1
}

// Global returns the bottom frame.
func (s *Scopes) Global() *Frame {
	return s.frames[0]
}

// Innermost returns the top frame.
func (s *Scopes) Innermost() *Frame {
	return s.frames[len(s.frames)-1]
}

// Lookup returns the innermost frame that binds name.
func (s *Scopes) Lookup(name string) (*Frame, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i].store[name]; ok {
			return s.frames[i], true
		}
	}
	return nil, false
}

// Get returns the visible binding for name.
func (s *Scopes) Get(name string) (*Value, bool) {
	if f, ok := s.Lookup(name); ok {
		return f.store[name], true
	}
	return nil, false
}

// Bind writes name into the innermost frame, shadowing outer bindings.
// Parameters and function declarations use this.
func (s *Scopes) Bind(name string, v *Value) {
	f := s.Innermost()
	f.Set(name, v)
	s.log.Trace().Str("name", name).Int("depth", f.depth).Msg("bind")
}

// Register is the assignment path: the frame that already owns name is
// updated, otherwise name is bound in the innermost frame.
func (s *Scopes) Register(name string, v *Value) {
	f, ok := s.Lookup(name)
	if !ok {
		f = s.Innermost()
	}
	f.Set(name, v)
	s.log.Trace().Str("name", name).Int("depth", f.depth).Msg("register")
}

// Names returns every visible name, sorted and without duplicates.
func (s *Scopes) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range s.frames {
		for name := range f.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
