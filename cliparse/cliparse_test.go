package cliparse

import (
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("STORE_TYPE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_KEY", "sekret")
	t.Setenv("ADMIN_CONTACT", "")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Port)
	}
	if cfg.DataDir != "data" {
		t.Errorf("Expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.StoreType != StoreFile {
		t.Errorf("Expected file store, got %q", cfg.StoreType)
	}
	if cfg.AdminKey != "sekret" {
		t.Errorf("Admin key not picked up from env")
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	t.Setenv("ADMIN_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := ParseFlags([]string{
		"-p", "8080", "-d", "/tmp/election", "-t", "sqlite",
		"-db", "file.db", "-admin-key", "k",
	})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 8080 || cfg.DataDir != "/tmp/election" || cfg.StoreType != StoreSQLite {
		t.Errorf("Flags not applied: %+v", cfg)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_TYPE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_KEY", "")

	if _, err := ParseFlags(nil); err == nil {
		t.Error("Expected error when ADMIN_KEY is missing")
	}

	if _, err := ParseFlags([]string{"-t", "redis", "-admin-key", "k"}); err == nil {
		t.Error("Expected error for unknown store type")
	}

	if _, err := ParseFlags([]string{"-t", "postgres", "-admin-key", "k"}); err == nil {
		t.Error("Expected error when database URL missing for postgres")
	}

	t.Setenv("PORT", "not-a-number")
	if _, err := ParseFlags([]string{"-admin-key", "k"}); err == nil {
		t.Error("Expected error for invalid PORT env")
	}
}
