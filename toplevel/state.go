package toplevel

import "strings"

// State is the set of state flags of a toplevel. The compositor always
// reports the complete set.
type State uint32

const (
	Maximized  State = 1 << handleStateMaximized
	Minimized  State = 1 << handleStateMinimized
	Activated  State = 1 << handleStateActivated
	Fullscreen State = 1 << handleStateFullscreen
)

var stateNames = [...]string{
	handleStateMaximized:  "maximized",
	handleStateMinimized:  "minimized",
	handleStateActivated:  "activated",
	handleStateFullscreen: "fullscreen",
}

// decodeState converts the array of enum values sent with the state
// event into flags. Values that this package doesn't know about are
// ignored.
func decodeState(vals []uint32) (s State) {
	for _, v := range vals {
		if v < uint32(len(stateNames)) {
			s |= 1 << v
		}
	}
	return s
}

// Has reports whether every flag in flag is set in s.
func (s State) Has(flag State) bool {
	return s&flag == flag
}

func (s State) String() string {
	var names []string
	for v, name := range stateNames {
		if s&(1<<v) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "normal"
	}
	return strings.Join(names, "|")
}
