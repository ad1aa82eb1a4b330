package toplevel

// ShowDesktop reports whether the desktop is being shown.
func (m *Manager) ShowDesktop() bool {
	return m.showDesktop
}

// SetShowDesktop shows or hides the desktop. Showing it minimizes
// every window that isn't already minimized. Hiding it restores those
// windows, and once they have all been restored, reactivates the one
// that was active beforehand.
//
// Both directions complete asynchronously as the compositor reports
// the windows' new states. ShowDesktop stays true until every window
// that was minimized has either been restored or closed. Setting the
// current value again does nothing, and neither does asking for the
// windows to be restored while they are already being restored.
func (m *Manager) SetShowDesktop(show bool) {
	if show == m.showDesktop || m.phase == gone {
		return
	}
	if !show && m.restoring {
		return
	}

	if show {
		m.showTheDesktop()
		return
	}
	m.restoreWindows()
}

func (m *Manager) setShowDesktop(show bool) {
	m.showDesktop = show
	m.events.Emit(ShowDesktopChanged{ShowDesktop: show})
}

func (m *Manager) showTheDesktop() {
	m.setShowDesktop(true)
	m.clearTracked()
	m.wasActive = 0

	var snapshot []*Toplevel
	for _, t := range m.Toplevels() {
		if !t.state.Has(Minimized) {
			snapshot = append(snapshot, t)
		}
	}

	for _, t := range snapshot {
		if t.closed {
			continue
		}

		id := t.ID()
		m.tracked.Add(id)
		if t.state.Has(Activated) {
			m.wasActive = id
		}
		m.cancels[id] = t.Subscribe(func(ev Event) { m.trackedEvent(t, ev) })
		t.Minimize()
	}

	if m.tracked.Len() == 0 {
		m.setShowDesktop(false)
	}
}

func (m *Manager) restoreWindows() {
	m.restoring = true
	for _, id := range m.tracked.Values() {
		t := m.table[id]
		if t == nil || t.closed {
			m.untrack(id)
			continue
		}

		t.Unminimize()

		// If the window never got as far as being minimized, there is
		// nothing to wait for.
		if !m.confirmed.Has(id) {
			m.untrack(id)
		}
	}

	m.checkRestored()
}

func (m *Manager) trackedEvent(t *Toplevel, ev Event) {
	id := t.ID()

	switch ev := ev.(type) {
	case StateChanged:
		if ev.New.Has(Minimized) {
			m.confirmed.Add(id)
			return
		}
		if !m.confirmed.Has(id) {
			return
		}
		m.untrack(id)
		m.checkRestored()

	case Closed:
		m.untrack(id)
		m.checkRestored()
	}
}

func (m *Manager) untrack(id uint32) {
	m.tracked.Delete(id)
	m.confirmed.Delete(id)
	if cancel, ok := m.cancels[id]; ok {
		delete(m.cancels, id)
		cancel()
	}
}

func (m *Manager) clearTracked() {
	for _, cancel := range m.cancels {
		cancel()
	}
	clear(m.cancels)
	clear(m.confirmed)
	m.tracked.Clear()
	m.restoring = false
}

// checkRestored finishes showing the desktop once no tracked windows
// are left.
func (m *Manager) checkRestored() {
	if !m.showDesktop || m.tracked.Len() > 0 {
		return
	}

	wasActive := m.table[m.wasActive]
	m.wasActive = 0
	m.restoring = false
	m.setShowDesktop(false)

	if wasActive != nil && !wasActive.closed {
		wasActive.Activate(m.Seat())
	}
}
