package scroll

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		total, pageSize int
		want            Window
	}{
		{10, 4, Window{0, 3, -1, 10}},
		{3, 5, Window{0, 2, -1, 3}},
		{5, 5, Window{0, 4, -1, 5}},
		{1, 5, Window{0, 0, -1, 1}},
	}
	for _, test := range tests {
		got := New(test.total, test.pageSize)
		if got != test.want {
			t.Errorf("New(%d, %d) -> %v, want %v", test.total, test.pageSize, got, test.want)
		}
	}
}

func TestNew_VisibleCount(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for p := 1; p <= n; p++ {
			w := New(n, p)
			if w.End-w.Start+1 != min(n, p) || w.Selected != -1 {
				t.Errorf("New(%d, %d) -> %v", n, p, w)
			}
		}
	}
}

// [start, end, selected] triples.
type triple [3]int

func checkScenario(t *testing.T, start Window, step func(Window) Window, scenario []triple) {
	t.Helper()
	w := start
	for i, want := range scenario {
		got := triple{w.Start, w.End, w.Selected}
		if got != want {
			t.Fatalf("step %d: got %v, want %v", i, got, want)
		}
		w = step(w)
	}
}

func TestNext(t *testing.T) {
	checkScenario(t, New(10, 4), Window.Next, []triple{
		{0, 3, -1},
		{0, 3, 0},
		{0, 3, 1},
		{0, 3, 2},
		{1, 4, 3},
		{2, 5, 4},
		{3, 6, 5},
		{4, 7, 6},
		{5, 8, 7},
		{6, 9, 8},
		{6, 9, 9},
		{0, 3, -1},
		{0, 3, 0},
		{0, 3, 1},
	})
}

func TestPrevious(t *testing.T) {
	checkScenario(t, New(10, 4).Last(), Window.Previous, []triple{
		{6, 9, 9},
		{6, 9, 8},
		{6, 9, 7},
		{5, 8, 6},
		{4, 7, 5},
		{3, 6, 4},
		{2, 5, 3},
		{1, 4, 2},
		{0, 3, 1},
		{0, 3, 0},
		{0, 3, -1},
		{6, 9, 9},
		{6, 9, 8},
	})
}

func TestNext_FewerItemsThanPage(t *testing.T) {
	checkScenario(t, New(3, 5), Window.Next, []triple{
		{0, 2, -1},
		{0, 2, 0},
		{0, 2, 1},
		{0, 2, 2},
		{0, 2, -1},
	})
}

func TestFirst(t *testing.T) {
	w := New(10, 4).Next().Next().Next().First()
	if want := (Window{0, 3, 0, 10}); w != want {
		t.Errorf("got %v, want %v", w, want)
	}
	w = New(3, 6).Next().Next().First()
	if want := (Window{0, 2, 0, 3}); w != want {
		t.Errorf("got %v, want %v", w, want)
	}
}

func TestLast(t *testing.T) {
	tests := []struct {
		w    Window
		want Window
	}{
		{New(10, 4), Window{6, 9, 9, 10}},
		{New(10, 1), Window{9, 9, 9, 10}},
		{New(3, 6), Window{0, 2, 2, 3}},
	}
	for _, test := range tests {
		if got := test.w.Last(); got != test.want {
			t.Errorf("%v.Last() -> %v, want %v", test.w, got, test.want)
		}
	}
}

func TestFullCycle(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for p := 1; p <= 6; p++ {
			start := New(n, p)
			w, v := start, start
			for i := 0; i < n+1; i++ {
				w = w.Next()
				v = v.Previous()
			}
			if w != start {
				t.Errorf("n=%d p=%d: Next x%d -> %v, want %v", n, p, n+1, w, start)
			}
			// A single-row window scrolls on every step and does not return to
			// its origin when walked backwards.
			if p > 1 && v != start {
				t.Errorf("n=%d p=%d: Previous x%d -> %v, want %v", n, p, n+1, v, start)
			}
		}
	}
}

func TestPreviousUndoesNext(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for p := 1; p <= 6; p++ {
			w := New(n, p)
			for i := 0; i < n; i++ {
				next := w.Next()
				back := next.Previous()
				wraps := next.Selected == -1
				scrolls := next.Start != w.Start || back.Start != next.Start
				if !wraps && !scrolls && back != w {
					t.Errorf("n=%d p=%d: %v.Next().Previous() -> %v", n, p, w, back)
				}
				w = next
			}
		}
	}
}

func TestScrollbar(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want Scrollbar
	}{
		{"beginning", Window{0, 3, 0, 10}, Scrollbar{Size: 2, Offset: 0}},
		{"middle", Window{4, 8, 5, 10}, Scrollbar{Size: 3, Offset: 2}},
		{"end", Window{5, 10, 10, 11}, Scrollbar{Size: 4, Offset: 2}},
		{"full", Window{0, 2, 1, 3}, Scrollbar{Size: 3, Offset: 0}},
		{"empty", New(0, 5), Scrollbar{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.w.Scrollbar(); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestScrollbar_Bounds(t *testing.T) {
	for n := 1; n <= 20; n++ {
		for p := 1; p <= 8; p++ {
			w := New(n, p)
			for i := 0; i <= n; i++ {
				sb := w.Scrollbar()
				if sb.Offset < 0 || sb.Offset+sb.Size > w.PageSize() {
					t.Errorf("%v: scrollbar %v out of track", w, sb)
				}
				if !w.Scrollable() && (sb.Size != n || sb.Offset != 0) {
					t.Errorf("%v: scrollbar %v, want full", w, sb)
				}
				w = w.Next()
			}
		}
	}
}
