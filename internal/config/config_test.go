package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"
)

// clearEnv unsets every JSWITCH_* variable for the test. ApplyEnv reloads
// the environment itself, so no cache needs resetting here.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvSourceLevel, EnvColor, EnvDumpFormat, EnvWarnings, EnvVerbose} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	settings, handle, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if settings != Defaults() {
		t.Fatalf("expected defaults, got %+v", settings)
	}
	if want := filepath.Join(dir, "jswitch.toml"); handle.Path != want {
		t.Fatalf("expected handle path %q, got %q", want, handle.Path)
	}
	if handle.Format != FormatTOML {
		t.Fatalf("expected format %q, got %q", FormatTOML, handle.Format)
	}
}

func TestLoadTOMLKeepsUnsetDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jswitch.toml"), heredoc.Doc(`
		source_level = 17
		color = "never"
	`))

	settings, handle, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.SourceLevel != 17 || settings.Color != ColorNever {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if !settings.Warnings || settings.DumpFormat != "text" {
		t.Fatalf("expected unset values to keep defaults, got %+v", settings)
	}
	if handle.Format != FormatTOML {
		t.Fatalf("expected toml handle, got %q", handle.Format)
	}
}

func TestLoadPrefersTOMLOverJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jswitch.toml"), "dump_format = \"yaml\"\n")
	writeFile(t, filepath.Join(dir, "jswitch.json"), `{"dump_format": "json"}`)

	settings, _, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.DumpFormat != "yaml" {
		t.Fatalf("expected toml to win, got %q", settings.DumpFormat)
	}
}

func TestLoadJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jswitch.json"), `{"warnings": false, "source_level": 14}`)

	settings, handle, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Warnings || settings.SourceLevel != 14 {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if handle.Format != FormatJSON {
		t.Fatalf("expected json format, got %q", handle.Format)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	writeFile(t, path, `{"color": "always"}`)

	settings, handle, err := Load(t.TempDir(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Color != ColorAlways || handle.Path != path || handle.Format != FormatJSON {
		t.Fatalf("unexpected result %+v %+v", settings, handle)
	}

	if _, _, err := Load(dir, filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("expected error for a missing explicit path")
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"toml syntax", "jswitch.toml", "source_level = \n", "parse settings"},
		{"unknown toml key", "jswitch.toml", "sourcelevel = 17\n", "parse settings"},
		{"unknown json key", "jswitch.json", `{"colour": "never"}`, "parse settings"},
		{"level too low", "jswitch.toml", "source_level = 7\n", "source level 7 outside 8..21"},
		{"bad color", "jswitch.toml", "color = \"rainbow\"\n", "unknown color mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			_, _, err := Load(dir, "")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jswitch.toml"), "source_level = 17\ncolor = \"always\"\n")
	t.Setenv(EnvSourceLevel, "1.8")
	t.Setenv(EnvColor, "NEVER")
	t.Setenv(EnvDumpFormat, "json")
	t.Setenv(EnvWarnings, "0")
	t.Setenv(EnvVerbose, "true")

	settings, _, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Settings{SourceLevel: 8, Color: ColorNever, DumpFormat: "json", Warnings: false, Verbose: true}
	if settings != want {
		t.Fatalf("expected %+v, got %+v", want, settings)
	}
}

func TestApplyEnvSeesLaterChanges(t *testing.T) {
	clearEnv(t)
	s := Defaults()
	if err := ApplyEnv(&s); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults with a clean environment, got %+v", s)
	}

	t.Setenv(EnvSourceLevel, "11")
	t.Setenv(EnvWarnings, "false")
	if err := ApplyEnv(&s); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if s.SourceLevel != 11 || s.Warnings {
		t.Fatalf("expected variables set after the first load to apply, got %+v", s)
	}

	os.Unsetenv(EnvSourceLevel)
	os.Unsetenv(EnvWarnings)
	s = Defaults()
	if err := ApplyEnv(&s); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("expected unset variables to stop applying, got %+v", s)
	}
}

func TestInvalidEnvJoinsErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSourceLevel, "seventeen")
	t.Setenv(EnvDumpFormat, "xml")

	_, _, err := Load(t.TempDir(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), EnvSourceLevel) {
		t.Errorf("expected the source level variable to be named, got %v", err)
	}

	s := Defaults()
	s.SourceLevel = 30
	s.DumpFormat = "xml"
	err = s.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"source level 30", `unknown dump format "xml"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestParseSourceLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"17", 17, false},
		{" 21 ", 21, false},
		{"1.8", 8, false},
		{"", 0, true},
		{"java17", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSourceLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSourceLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSourceLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	clearEnv(t)
	want := Settings{SourceLevel: 16, Color: ColorNever, DumpFormat: "yaml", Warnings: false}

	for _, format := range []SettingsFormat{FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, want, format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			dir := t.TempDir()
			path := filepath.Join(dir, "settings."+string(format))
			writeFile(t, path, buf.String())

			got, _, err := Load(dir, path)
			if err != nil {
				t.Fatalf("Load failed: %v\n%s", err, buf.String())
			}
			if got != want {
				t.Fatalf("expected %+v, got %+v", want, got)
			}
		})
	}
}
