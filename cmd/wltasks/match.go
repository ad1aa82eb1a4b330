package main

import (
	"strconv"
	"strings"

	"deedles.dev/wlpanel/toplevel"
)

// match returns the open toplevels selected by pattern. A pattern that
// parses as a number selects the toplevel with that ID. Otherwise it
// selects toplevels whose app ID is exactly pattern, or, failing that,
// whose title contains it.
func match(m *toplevel.Manager, pattern string) []*toplevel.Toplevel {
	if id, err := strconv.ParseUint(pattern, 10, 32); err == nil {
		if t := m.Lookup(uint32(id)); t != nil && !t.Closed() {
			return []*toplevel.Toplevel{t}
		}
		return nil
	}

	list := m.Toplevels()

	var byAppID []*toplevel.Toplevel
	for _, t := range list {
		if t.AppID() == pattern {
			byAppID = append(byAppID, t)
		}
	}
	if len(byAppID) > 0 {
		return byAppID
	}

	var byTitle []*toplevel.Toplevel
	for _, t := range list {
		if strings.Contains(t.Title(), pattern) {
			byTitle = append(byTitle, t)
		}
	}
	return byTitle
}
