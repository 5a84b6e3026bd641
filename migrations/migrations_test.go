package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
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
	if len(ups) == 0 {
		t.Fatalf("expected at least one migration")
	}
	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
}

func TestInitCreatesRepositoryTables(t *testing.T) {
	b, err := fs.ReadFile(FS, "000001_init.up.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sql := string(b)
	for _, want := range []string{"CREATE TABLE IF NOT EXISTS leads", "CREATE TABLE IF NOT EXISTS chat_sessions", "insurance_topics TEXT[]"} {
		if !strings.Contains(sql, want) {
			t.Fatalf("expected %q in init migration", want)
		}
	}
}
