package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

type clientSettings struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Headers map[string]string
}

type testSettings struct {
	Client clientSettings `mapstructure:"client"`
	Log    struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

type mockFS struct {
	files     map[string]bool
	envLoaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.envLoaded = append(m.envLoaded, path)
	return nil
}

func (m *mockFS) UserConfigDir() (string, error) { return "/home/u/.config", nil }

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "okreq.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeYAML(t, `
client:
  base_url: https://api.example.com
  timeout: 5s
log:
  level: debug
`)
	var cfg testSettings
	if err := LoadConfig("okreq", &cfg, WithConfigFile(path), WithEnvPrefix("OKREQTEST")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Client.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Client.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeYAML(t, `
client:
  base_url: https://file.example.com
  timeout: 5s
`)
	t.Setenv("OKREQTEST_CLIENT_BASE_URL", "https://env.example.com")
	t.Setenv("OKREQTEST_LOG_LEVEL", "warn")

	var cfg testSettings
	if err := LoadConfig("okreq", &cfg, WithConfigFile(path), WithEnvPrefix("OKREQTEST_")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Client.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %q, want env override", cfg.Client.BaseURL)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if cfg.Client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Client.Timeout)
	}
}

func TestLoadConfig_PrefixIgnoresOtherVars(t *testing.T) {
	t.Setenv("CLIENT_BASE_URL", "https://unprefixed.example.com")
	fs := &mockFS{files: map[string]bool{}}

	var cfg testSettings
	if err := LoadConfig("okreq", &cfg, WithFileSystem(fs), WithEnvPrefix("OKREQTEST")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Client.BaseURL != "" {
		t.Errorf("BaseURL = %q, want empty", cfg.Client.BaseURL)
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	var cfg testSettings
	err := LoadConfig("okreq", &cfg, WithConfigFile("/does/not/exist.yml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfig_NoFilesFound(t *testing.T) {
	fs := &mockFS{files: map[string]bool{}}
	var cfg testSettings
	if err := LoadConfig("okreq", &cfg, WithFileSystem(fs), WithEnvPrefix("OKREQTEST")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeYAML(t, "client: [unterminated")
	var cfg testSettings
	if err := LoadConfig("okreq", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolver_ResolveFiles(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]bool
		opts       LoaderConfig
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "local yml",
			files:      map[string]bool{"./okreq.yml": true, ".env": true},
			wantConfig: "./okreq.yml",
			wantEnv:    ".env",
		},
		{
			name:       "config dir",
			files:      map[string]bool{"./config/okreq.yml": true},
			wantConfig: "./config/okreq.yml",
		},
		{
			name:       "user config dir",
			files:      map[string]bool{"/home/u/.config/okreq/config.yml": true},
			wantConfig: "/home/u/.config/okreq/config.yml",
		},
		{
			name:       "named env file wins",
			files:      map[string]bool{".env.okreq": true, ".env": true},
			wantEnv:    ".env.okreq",
		},
		{
			name:       "explicit paths",
			files:      map[string]bool{"./okreq.yml": true},
			opts:       LoaderConfig{ConfigFile: "/etc/okreq.yml", EnvFile: "/etc/okreq.env"},
			wantConfig: "/etc/okreq.yml",
			wantEnv:    "/etc/okreq.env",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{FileSystem: &mockFS{files: tt.files}}
			got := r.ResolveFiles("okreq", tt.opts)
			if got.ConfigFile != tt.wantConfig {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, tt.wantConfig)
			}
			if got.EnvFile != tt.wantEnv {
				t.Errorf("EnvFile = %q, want %q", got.EnvFile, tt.wantEnv)
			}
		})
	}
}

func TestLoadConfig_LoadsEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{".env": true}}
	var cfg testSettings
	if err := LoadConfig("okreq", &cfg, WithFileSystem(fs), WithEnvPrefix("OKREQTEST")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !slices.Equal(fs.envLoaded, []string{".env"}) {
		t.Errorf("envLoaded = %v", fs.envLoaded)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("CLIENT_BASE_URL")
	for _, want := range []string{"client_base_url", "client.base_url", "client.base.url", "client_base.url"} {
		if !slices.Contains(got, want) {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if single := generateEnvKeyVariants("TIMEOUT"); !slices.Equal(single, []string{"timeout"}) {
		t.Errorf("single = %v", single)
	}
}
