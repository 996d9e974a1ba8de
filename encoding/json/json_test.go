package json

import "testing"

func TestSWriteJson(t *testing.T) {
	type stats struct {
		Variant  string
		Capacity int
		Stripes  int `json:"locks"`
	}
	s, err := SWriteJson(stats{Variant: "striped", Capacity: 8, Stripes: 4})
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"variant":"striped","capacity":8,"locks":4}`
	if s != expected {
		t.Fatalf("expected: %v, actual: %v", expected, s)
	}
}

func TestParseJsonAs(t *testing.T) {
	type stats struct {
		Variant string
		Size    int
	}
	d, err := ParseJsonAs[stats]([]byte(`{ "variant": "refinable", "size": 20 }`))
	if err != nil {
		t.Fatal(err)
	}
	if d.Variant != "refinable" || d.Size != 20 {
		t.Fatalf("unexpected: %#v", d)
	}
}

func TestSWriteIndent(t *testing.T) {
	s, err := SWriteIndent(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatal(err)
	}
	expected := "{\n  \"a\": 1,\n  \"b\": 2\n}"
	if s != expected {
		t.Fatalf("expected: %q, actual: %q", expected, s)
	}
}
