// Package inbox turns a flat conversation list into the vendor-grouped,
// unread-prioritized navigation shown on the messages page.
package inbox

import "sort"

// Summary is the minimum a conversation must expose to be grouped
type Summary interface {
	GroupKey() string
	Unread() int64
}

// VendorGroup holds every conversation with one vendor
type VendorGroup[T Summary] struct {
	VendorId    string `json:"vendor_id"`
	TotalUnread int64  `json:"total_unread"`
	Events      []T    `json:"events"`
}

// GroupByVendor folds convs into one group per vendor. Conversations keep
// their input order inside a group. Groups are ordered by descending
// TotalUnread; equal totals keep the order in which the vendor first appeared.
func GroupByVendor[T Summary](convs []T) []*VendorGroup[T] {
	index := make(map[string]int, len(convs))
	groups := make([]*VendorGroup[T], 0)

	for _, c := range convs {
		key := c.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &VendorGroup[T]{VendorId: key})
		}
		g := groups[i]
		g.Events = append(g.Events, c)
		g.TotalUnread += c.Unread()
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalUnread > groups[j].TotalUnread
	})
	return groups
}

// ExpandedSet is the set of vendor ids open in the navigation tree
type ExpandedSet map[string]struct{}

// Expand marks vendorId open; expanding twice is a no-op
func (s ExpandedSet) Expand(vendorId string) {
	s[vendorId] = struct{}{}
}

// Collapse marks vendorId closed
func (s ExpandedSet) Collapse(vendorId string) {
	delete(s, vendorId)
}

// Toggle flips vendorId and reports the new state
func (s ExpandedSet) Toggle(vendorId string) bool {
	if s.Has(vendorId) {
		s.Collapse(vendorId)
		return false
	}
	s.Expand(vendorId)
	return true
}

// Has reports whether vendorId is open
func (s ExpandedSet) Has(vendorId string) bool {
	_, ok := s[vendorId]
	return ok
}

// AutoExpand opens every group that has more than one conversation and
// nonzero unread. Groups already open stay open.
func AutoExpand[T Summary](groups []*VendorGroup[T], expanded ExpandedSet) {
	for _, g := range groups {
		if len(g.Events) > 1 && g.TotalUnread > 0 {
			expanded.Expand(g.VendorId)
		}
	}
}

// PickInitial returns the conversation to open first: the first group's first
// conversation with unread messages, else its first conversation.
// ok is false when there are no groups.
func PickInitial[T Summary](groups []*VendorGroup[T]) (pick T, ok bool) {
	if len(groups) == 0 || len(groups[0].Events) == 0 {
		return pick, false
	}
	first := groups[0]
	for _, c := range first.Events {
		if c.Unread() > 0 {
			return c, true
		}
	}
	return first.Events[0], true
}
