package migrate

import (
	"context"
	"strings"
	"testing"
)

func TestVersionsArePaired(t *testing.T) {
	names, err := Versions()
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(names) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %s", n)
		}
	}
	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
	if len(ups) != len(downs) {
		t.Fatalf("unbalanced migrations: %d up, %d down", len(ups), len(downs))
	}
}

func TestRollbackRejectsNonPositiveSteps(t *testing.T) {
	if err := Rollback(context.Background(), nil, 0); err == nil {
		t.Fatalf("expected error for zero steps")
	}
}
