package uistate

import "github.com/nikbrunner/bmark/internal/model"

// Stack is the navigation history. The top is the current state.
type Stack struct {
	states []State
}

// Push makes s current. Pushing the current state again is ignored and
// a search pushed on top of a search replaces it.
func (st *Stack) Push(s State) {
	if top, ok := st.Peek(); ok {
		if top.Equal(s) {
			return
		}
		if top.Mode == ModeSearching && s.Mode == ModeSearching {
			st.states[len(st.states)-1] = s
			return
		}
	}
	st.states = append(st.states, s)
}

// Pop removes and returns the current state.
func (st *Stack) Pop() (State, bool) {
	if len(st.states) == 0 {
		return State{}, false
	}
	top := st.states[len(st.states)-1]
	st.states = st.states[:len(st.states)-1]
	return top, true
}

// Peek returns the current state.
func (st *Stack) Peek() (State, bool) {
	if len(st.states) == 0 {
		return State{}, false
	}
	return st.states[len(st.states)-1], true
}

func (st *Stack) Len() int {
	return len(st.states)
}

func (st *Stack) Clear() {
	st.states = nil
}

// RemoveFolder drops every state showing folder, then collapses
// neighbours that became equal.
func (st *Stack) RemoveFolder(folder model.BookmarkID) {
	kept := st.states[:0]
	for _, s := range st.states {
		if s.Mode == ModeFolder && s.Folder == folder {
			continue
		}
		if n := len(kept); n > 0 && kept[n-1].Equal(s) {
			continue
		}
		kept = append(kept, s)
	}
	st.states = kept
}

// States returns a copy, bottom first.
func (st *Stack) States() []State {
	out := make([]State, len(st.states))
	copy(out, st.states)
	return out
}
