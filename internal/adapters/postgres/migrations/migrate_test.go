package migrations

import (
	"sort"
	"strings"
	"testing"
)

func TestNames_SortedSQLFiles(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) < 2 {
		t.Fatalf("expected at least 2 migrations, got %v", names)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("migrations out of order: %v", names)
	}
	for _, n := range names {
		if !strings.HasSuffix(n, ".sql") {
			t.Errorf("unexpected file %s", n)
		}
	}
	if names[0] != "001_geofences.sql" {
		t.Errorf("first migration = %s", names[0])
	}
}
