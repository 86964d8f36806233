package window

// locateState is the accumulator threaded through one enumeration pass.
type locateState struct {
	pids     map[int32]struct{}
	fallback Handle
	found    Handle
}

// visit handles one enumerated window and reports whether enumeration should continue.
func (s *locateState) visit(d Desktop, h Handle) bool {
	if !d.IsVisible(h) {
		return true
	}

	pid, ok := d.OwnerPID(h)
	if !ok {
		return true
	}
	if _, match := s.pids[pid]; !match {
		return true
	}

	if d.HasTitle(h) {
		s.found = h
		return false
	}

	// Only the first untitled match is kept as fallback.
	if s.fallback == 0 {
		s.fallback = h
	}
	return true
}

// Locate picks a window owned by one of pids.
//
// The first visible titled window in enumeration order wins and stops the
// enumeration. Without any titled match the first visible untitled window is
// returned. The choice is greedy and order dependent: it does not try to find
// the "main" window when a process owns several.
func Locate(d Desktop, pids map[int32]struct{}) (Candidate, bool) {
	if len(pids) == 0 {
		return Candidate{}, false
	}

	state := &locateState{pids: pids}
	// An error here means enumeration stopped early or was interrupted; whatever
	// was collected so far is still usable.
	_ = d.EachWindow(func(h Handle) bool {
		return state.visit(d, h)
	})

	if state.found != 0 {
		return Candidate{Handle: state.found, HasTitle: true}, true
	}
	if state.fallback != 0 {
		return Candidate{Handle: state.fallback}, true
	}
	return Candidate{}, false
}
