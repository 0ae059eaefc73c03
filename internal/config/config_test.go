package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "qanun.yaml", `
dataDir: /srv/laws
snapshotDir: /var/lib/qanun
search:
  threshold: 0.4
  ignoreDiacritics: true
log:
  level: debug
`)
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.DataDir != "/srv/laws" || c.SnapshotDir != "/var/lib/qanun" {
		t.Errorf("dirs = %q %q", c.DataDir, c.SnapshotDir)
	}
	if c.Search.Threshold != 0.4 || !c.Search.IgnoreDiacritics {
		t.Errorf("search = %+v", c.Search)
	}
	if c.Search.Limit != 20 || c.Server.Addr != ":8080" {
		t.Errorf("defaults lost: limit=%d addr=%q", c.Search.Limit, c.Server.Addr)
	}
}

func TestLoadFile_JSONAndUnknownExt(t *testing.T) {
	for _, name := range []string{"qanun.json", "qanun.conf"} {
		path := writeFile(t, name, `{"dataDir": "books", "cache": {"books": 4}}`)
		c, err := LoadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if c.DataDir != "books" || c.Cache.Books != 4 {
			t.Errorf("%s: %+v", name, c)
		}
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "search:\n  threshold: 3\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected threshold validation error")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"QANUN_DATA_DIR":          "/data",
		"QANUN_SEARCH_LIMIT":      "50",
		"QANUN_IGNORE_DIACRITICS": "true",
		"PORT":                    "9000",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	c := Default()
	if err := c.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if c.DataDir != "/data" || c.Search.Limit != 50 || !c.Search.IgnoreDiacritics {
		t.Errorf("config = %+v", c)
	}
	if c.Server.Addr != ":9000" {
		t.Errorf("addr = %q", c.Server.Addr)
	}

	env = map[string]string{"QANUN_SEARCH_LIMIT": "many"}
	c = Default()
	if err := c.ApplyEnv(lookup); err == nil {
		t.Error("expected parse error")
	}
}
