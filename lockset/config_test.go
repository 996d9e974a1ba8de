package lockset

import (
	"testing"
	"time"
)

func TestArgKeyVal(t *testing.T) {
	m := ArgKeyVal([]string{"bench.capacity=32", "bench.variants = striped,refinable", "noeq", "a=1", "a=2"})
	if v := m["bench.capacity"]; len(v) != 1 || v[0] != "32" {
		t.Fatalf("bench.capacity: %v", v)
	}
	if v := m["bench.variants"]; len(v) != 1 || v[0] != "striped,refinable" {
		t.Fatalf("bench.variants: %v", v)
	}
	if v := m["a"]; len(v) != 2 {
		t.Fatalf("a: %v", v)
	}
	if _, ok := m["noeq"]; ok {
		t.Fatal("noeq should be ignored")
	}
}

func TestGuessConfigFilePath(t *testing.T) {
	if p := GuessConfigFilePath([]string{"bench.capacity=1"}); p != "conf.yml" {
		t.Fatalf("expected conf.yml, actual: %v", p)
	}
	if p := GuessConfigFilePath([]string{"configFile=/tmp/bench.yml"}); p != "/tmp/bench.yml" {
		t.Fatalf("expected /tmp/bench.yml, actual: %v", p)
	}
}

func TestAppConfig_Overwrite(t *testing.T) {
	a := newAppConfig()
	a.SetDefProp(PropBenchCapacity, 16)
	a.SetDefProp(PropBenchVariants, "coarse,striped,refinable")

	err := a.LoadConfigFromStr(`
bench:
  capacity: 64
  variants:
    - striped
    - refinable
  progress-interval-sec: 2
`)
	if err != nil {
		t.Fatal(err)
	}
	if v := a.GetPropInt(PropBenchCapacity); v != 64 {
		t.Fatalf("expected 64, actual: %v", v)
	}
	if v := a.GetPropStrSlice(PropBenchVariants); len(v) != 2 || v[0] != "striped" || v[1] != "refinable" {
		t.Fatalf("unexpected variants: %v", v)
	}
	if v := a.GetPropDur(PropBenchProgressIntervalSec, time.Second); v != 2*time.Second {
		t.Fatalf("expected 2s, actual: %v", v)
	}

	a.OverwriteConf([]string{"bench.capacity=8", "bench.variants=sequential, coarse"})
	if v := a.GetPropInt(PropBenchCapacity); v != 8 {
		t.Fatalf("expected 8, actual: %v", v)
	}
	if v := a.GetPropStrSlice(PropBenchVariants); len(v) != 2 || v[0] != "sequential" || v[1] != "coarse" {
		t.Fatalf("unexpected variants: %v", v)
	}
}

func TestDefaultProps(t *testing.T) {
	if v := GetPropInt(PropBenchLoadFactor); v != 4 {
		t.Fatalf("expected 4, actual: %v", v)
	}
	if v := GetPropStrSlice(PropBenchVariants); len(v) != 3 {
		t.Fatalf("unexpected variants: %v", v)
	}
}
