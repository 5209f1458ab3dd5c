package mdstyle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStyle(t *testing.T) {
	got := ParseStyle("font-size: 2em; FONT-WEIGHT: bold;; color:#fabd2f !important; bogus; cursor: pointer; background: var(--x)")
	want := Style{
		FontSize:   "2em",
		FontWeight: "bold",
		Color:      "#fabd2f",
		Background: "var(--x)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected style (-want +got):\n%s", diff)
	}
	if got.String() != "font-size: 2em; font-weight: bold; color: #fabd2f; background-color: var(--x);" {
		t.Fatalf("unexpected css %q", got.String())
	}
	if !ParseStyle(got.String()).Merge(Style{}).IsBold() {
		t.Fatalf("expected bold after round trip")
	}
}

func TestStyleQueries(t *testing.T) {
	cases := []struct {
		style  Style
		bold   bool
		italic bool
		scale  float64
		alpha  float64
	}{
		{style: Style{}, scale: 1, alpha: 1},
		{style: Style{FontWeight: "700", FontSize: "150%"}, bold: true, scale: 1.5, alpha: 1},
		{style: Style{FontWeight: "400", FontStyle: "oblique", Opacity: "0.6"}, italic: true, scale: 1, alpha: 0.6},
		{style: Style{FontWeight: "bolder", FontSize: "12px", Opacity: "7"}, bold: true, scale: 1, alpha: 1},
		{style: Style{FontSize: "1.8em", Opacity: "nope"}, scale: 1.8, alpha: 1},
	}
	for i, tc := range cases {
		if got := tc.style.IsBold(); got != tc.bold {
			t.Fatalf("case %d: IsBold()=%v want %v", i, got, tc.bold)
		}
		if got := tc.style.IsItalic(); got != tc.italic {
			t.Fatalf("case %d: IsItalic()=%v want %v", i, got, tc.italic)
		}
		if got := tc.style.FontScale(); got != tc.scale {
			t.Fatalf("case %d: FontScale()=%v want %v", i, got, tc.scale)
		}
		if got := tc.style.Alpha(); got != tc.alpha {
			t.Fatalf("case %d: Alpha()=%v want %v", i, got, tc.alpha)
		}
	}
}

func TestStyleMerge(t *testing.T) {
	base := Style{FontWeight: "bold", Color: "red"}
	got := base.Merge(Style{Color: "blue", TextDecoration: "underline"})
	want := Style{FontWeight: "bold", Color: "blue", TextDecoration: "underline"}
	if got != want {
		t.Fatalf("Merge()=%+v want %+v", got, want)
	}
	if !got.IsUnderlined() {
		t.Fatalf("expected underline")
	}
	if !(Style{}).IsZero() || got.IsZero() {
		t.Fatalf("unexpected IsZero result")
	}
}
