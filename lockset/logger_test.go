package lockset

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestCTFormatter(t *testing.T) {
	e := &logrus.Entry{
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.Local),
		Level:   logrus.InfoLevel,
		Message: "resized striped set",
		Data:    logrus.Fields{callerField: "hash.(*StripedSet).resize"},
	}
	b, err := CustomFormatter().Format(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	t.Log(s)
	if !strings.HasPrefix(s, "2026-01-02 03:04:05.006 INFO  hash.(*StripedSet).resize") {
		t.Fatalf("unexpected prefix: %q", s)
	}
	if !strings.HasSuffix(s, " : resized striped set\n") {
		t.Fatalf("unexpected suffix: %q", s)
	}
}

func TestParseLogLevel(t *testing.T) {
	if l, ok := ParseLogLevel("debug"); !ok || l != logrus.DebugLevel {
		t.Fatalf("debug: %v, %v", l, ok)
	}
	if _, ok := ParseLogLevel("verbose"); ok {
		t.Fatal("verbose should not be parsed")
	}
}

func TestGetShortFnName(t *testing.T) {
	if v := getShortFnName("github.com/curtisnewbie/lockset/util/hash.(*RefinableSet[...]).refine"); v != "hash.(*RefinableSet[...]).refine" {
		t.Fatalf("unexpected: %v", v)
	}
}
