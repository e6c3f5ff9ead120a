package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("LORE_TEST_INT", "abc")
	if got := Int("LORE_TEST_INT", 7); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("LORE_TEST_INT", " 42 ")
	if got := Int("LORE_TEST_INT", 7); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("LORE_TEST_BOOL", "off")
	if Bool("LORE_TEST_BOOL", true) {
		t.Fatalf("Bool: want=false for off")
	}
	t.Setenv("LORE_TEST_BOOL", "maybe")
	if !Bool("LORE_TEST_BOOL", true) {
		t.Fatalf("Bool: want default for unknown value")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("LORE_TEST_DUR", "90s")
	if got := Duration("LORE_TEST_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration: want=90s got=%s", got)
	}
	t.Setenv("LORE_TEST_DUR", "15")
	if got := Duration("LORE_TEST_DUR", time.Second); got != 15*time.Second {
		t.Fatalf("Duration: want=15s got=%s", got)
	}
	t.Setenv("LORE_TEST_DUR", "")
	if got := Duration("LORE_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("Duration: want default got=%s", got)
	}
}
