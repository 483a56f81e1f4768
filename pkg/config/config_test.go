package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets the overrides for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"COUCHBASE_USERNAME", "COUCHBASE_PASSWORD", "COUCHBASE_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8091 {
		t.Errorf("Port = %d, want 8091", cfg.Port)
	}
	if cfg.Bucket.WarningQuota != ">=85" || cfg.Bucket.CriticalQuota != ">=95" {
		t.Errorf("quota thresholds = %q/%q", cfg.Bucket.WarningQuota, cfg.Bucket.CriticalQuota)
	}
	if len(cfg.Bucket.Stats) != 3 || cfg.Bucket.Stats[1].Critical != ">0" {
		t.Errorf("Stats = %+v", cfg.Bucket.Stats)
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)

	if _, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), ".env")}, nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "cbprobe.yaml", `
port: 18091
username: monitor
format: json
bucket:
  warning_quota: ">=70"
  stats:
    - name: ep_tmp_oom_errors
      critical: ">=1"
    - name: vb_active_resident_items_ratio
      warning: "<50"
`)

	cfg, err := Load(Options{File: path}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 18091 || cfg.Username != "monitor" || cfg.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Bucket.WarningQuota != ">=70" {
		t.Errorf("WarningQuota = %q, want >=70", cfg.Bucket.WarningQuota)
	}
	if cfg.Bucket.CriticalQuota != ">=95" {
		t.Errorf("CriticalQuota = %q, want default >=95", cfg.Bucket.CriticalQuota)
	}
	if len(cfg.Bucket.Stats) != 2 || cfg.Bucket.Stats[1].Warning != "<50" {
		t.Errorf("Stats = %+v", cfg.Bucket.Stats)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "cbprobe.yaml", "username: from-file\npassword: file-pass\n")
	t.Setenv("COUCHBASE_USERNAME", "from-env")

	cfg, err := Load(Options{File: path}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Username != "from-env" {
		t.Errorf("Username = %q, want from-env", cfg.Username)
	}
	if cfg.Password != "file-pass" {
		t.Errorf("Password = %q, want file-pass", cfg.Password)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "COUCHBASE_PASSWORD=dotenv-secret\nCOUCHBASE_PORT=9000\n")

	cfg, err := Load(Options{EnvFile: envFile}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Password != "dotenv-secret" || cfg.Port != 9000 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("missing config file", func(t *testing.T) {
		if _, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml")}, nil); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("bad port env", func(t *testing.T) {
		t.Setenv("COUCHBASE_PORT", "not-a-number")
		if _, err := Load(Options{}, nil); err == nil {
			t.Error("expected error for invalid COUCHBASE_PORT")
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		path := writeFile(t, "cbprobe.yaml", "port: 70000\n")
		if _, err := Load(Options{File: path}, nil); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("port zero", func(t *testing.T) {
		path := writeFile(t, "cbprobe.yaml", "port: 0\n")
		if _, err := Load(Options{File: path}, nil); err == nil {
			t.Error("expected validation error for port 0")
		}
	})

	t.Run("unnamed stat rule", func(t *testing.T) {
		path := writeFile(t, "cbprobe.yaml", "bucket:\n  stats:\n    - critical: \">0\"\n")
		if _, err := Load(Options{File: path}, nil); err == nil {
			t.Error("expected validation error")
		}
	})
}
