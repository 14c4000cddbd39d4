// Package scroll implements the selection window of a scrollable list, as used
// by the completion menu.
//
// All operations are pure: they take a Window by value and return a new one,
// so windows can be compared with ==.
package scroll

// Window is a bounded visible slice of a longer list of items.
//
// Start and End are inclusive indices of the visible slice. Selected is the
// index of the selected item, or -1 when nothing is selected.
type Window struct {
	Start    int
	End      int
	Selected int
	Total    int
}

// Scrollbar describes the thumb of a scrollbar drawn next to a Window, in
// rows relative to the first visible row.
type Scrollbar struct {
	Size   int
	Offset int
}

// New returns a window over total items showing at most pageSize of them, with
// nothing selected.
func New(total, pageSize int) Window {
	return Window{Start: 0, End: min(pageSize, total) - 1, Selected: -1, Total: total}
}

// PageSize returns the number of visible rows of the window.
func (w Window) PageSize() int {
	return w.End - w.Start + 1
}

// Next selects the following item, scrolling down by one row if the new
// selection reaches the last visible row and more items follow. Advancing past
// the last item wraps to a fresh window with nothing selected.
func (w Window) Next() Window {
	selected := w.Selected + 1
	if selected >= w.Total {
		return New(w.Total, w.PageSize())
	}
	if selected == w.End && w.End != w.Total-1 {
		w.Start++
		w.End++
	}
	w.Selected = selected
	return w
}

// Previous selects the preceding item, scrolling up by one row if the new
// selection reaches the first visible row and more items precede it. Retreating
// from the unselected state wraps to the last item.
func (w Window) Previous() Window {
	selected := w.Selected - 1
	if selected < -1 {
		return New(w.Total, w.PageSize()).Last()
	}
	if selected == w.Start && w.Start != 0 {
		w.Start--
		w.End--
	}
	w.Selected = selected
	return w
}

// First resets the window to its initial position and selects the first item.
func (w Window) First() Window {
	return New(w.Total, w.PageSize()).Next()
}

// Last moves the window to the final page and selects the last item.
func (w Window) Last() Window {
	return Window{
		Start:    max(w.Total-w.PageSize(), 0),
		End:      w.Total - 1,
		Selected: w.Total - 1,
		Total:    w.Total,
	}
}

// Scrollbar returns the size and position of the scrollbar thumb. The thumb is
// proportional to the share of items that are visible.
func (w Window) Scrollbar() Scrollbar {
	if w.Total <= 0 {
		return Scrollbar{}
	}
	track := w.PageSize()
	// Thumb rows = ceil(track*track/total), thumb offset = floor(start*track/total).
	return Scrollbar{
		Size:   ceilDiv(track*track, w.Total),
		Offset: w.Start * track / w.Total,
	}
}

// Scrollable returns whether the window shows fewer items than there are.
func (w Window) Scrollable() bool {
	return w.PageSize() < w.Total
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
