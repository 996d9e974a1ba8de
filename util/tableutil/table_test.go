package tableutil

import "testing"

func TestRender(t *testing.T) {
	s := Render([]string{"variant", "ops/s"}, [][]string{
		{"striped", "1200"},
		{"refinable"},
	})
	t.Logf("\n%s", s)
	expected := "" +
		"variant    ops/s\n" +
		"---------  -----\n" +
		"striped     1200\n" +
		"refinable       \n"
	if s != expected {
		t.Fatalf("expected:\n%q\nactual:\n%q", expected, s)
	}
}

func TestStrWidth(t *testing.T) {
	if w := StrWidth("set"); w != 3 {
		t.Fatalf("expected 3, actual: %v", w)
	}
	if w := StrWidth("集合"); w != 4 {
		t.Fatalf("expected 4, actual: %v", w)
	}
}

func TestPadSpace(t *testing.T) {
	if s := PadSpace(5, "ab"); s != "   ab" {
		t.Fatalf("unexpected: %q", s)
	}
	if s := PadSpace(-5, "ab"); s != "ab   " {
		t.Fatalf("unexpected: %q", s)
	}
	if s := PadSpace(1, "ab"); s != "ab" {
		t.Fatalf("unexpected: %q", s)
	}
}
