package toplevel

import wl "deedles.dev/wlpanel/client"

// Event is a notification delivered to the subscribers of a Toplevel.
// It is one of TitleChanged, AppIDChanged, MonitorsChanged,
// StateChanged, ParentChanged, Done or Closed.
type Event interface {
	toplevelEvent()
}

type TitleChanged struct {
	Title string
}

type AppIDChanged struct {
	AppID string
}

type MonitorsChanged struct {
	Monitors []*wl.Output
}

type StateChanged struct {
	Old, New State
}

// ParentChanged is delivered when the toplevel's parent changes.
// ParentID is 0 if the toplevel no longer has a parent.
type ParentChanged struct {
	ParentID uint32
}

// Done marks the end of a batch of changes.
type Done struct{}

// Closed is the last notification delivered for a toplevel.
type Closed struct{}

func (TitleChanged) toplevelEvent()    {}
func (AppIDChanged) toplevelEvent()    {}
func (MonitorsChanged) toplevelEvent() {}
func (StateChanged) toplevelEvent()    {}
func (ParentChanged) toplevelEvent()   {}
func (Done) toplevelEvent()            {}
func (Closed) toplevelEvent()          {}

// ManagerEvent is a notification delivered to the subscribers of a
// Manager. It is one of Added, Removed, ActiveChanged or
// ShowDesktopChanged.
type ManagerEvent interface {
	managerEvent()
}

type Added struct {
	Toplevel *Toplevel
}

// Removed is delivered after a toplevel's Closed notification and
// before it is released.
type Removed struct {
	Toplevel *Toplevel
}

// ActiveChanged is delivered when a different toplevel becomes active.
// Active is nil if the active toplevel was closed.
type ActiveChanged struct {
	Active *Toplevel
}

type ShowDesktopChanged struct {
	ShowDesktop bool
}

func (Added) managerEvent()              {}
func (Removed) managerEvent()            {}
func (ActiveChanged) managerEvent()      {}
func (ShowDesktopChanged) managerEvent() {}
