package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/xyproto/env/v2"
)

const (
	FormatTOML SettingsFormat = "toml"
	FormatJSON SettingsFormat = "json"
)

// Color modes for diagnostics
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables overriding the settings file
const (
	EnvSourceLevel = "JSWITCH_SOURCE_LEVEL"
	EnvColor       = "JSWITCH_COLOR"
	EnvDumpFormat  = "JSWITCH_DUMP_FORMAT"
	EnvWarnings    = "JSWITCH_WARNINGS"
	EnvVerbose     = "JSWITCH_VERBOSE"
)

// Accepted source levels
const (
	MinSourceLevel     = 8
	MaxSourceLevel     = 21
	DefaultSourceLevel = 21
)

type Settings struct {
	SourceLevel int    `json:"source_level" toml:"source_level"`
	Color       string `json:"color"        toml:"color"`
	DumpFormat  string `json:"dump_format"  toml:"dump_format"`
	Warnings    bool   `json:"warnings"     toml:"warnings"`
	Verbose     bool   `json:"verbose"      toml:"verbose"`
}

type SettingsFormat string
type SettingsHandle struct {
	Path   string
	Format SettingsFormat
}

// Defaults returns the settings used when no file sets a value.
func Defaults() Settings {
	return Settings{
		SourceLevel: DefaultSourceLevel,
		Color:       ColorAuto,
		DumpFormat:  "text",
		Warnings:    true,
	}
}

// Load reads settings, applies environment overrides and validates the
// result. An explicit path must exist; otherwise jswitch.toml and then
// jswitch.json in dir are tried, and defaults are used if neither exists.
// Values a file leaves out keep their defaults.
func Load(dir, path string) (Settings, SettingsHandle, error) {
	settings, handle, err := loadFile(dir, path)
	if err != nil {
		return Settings{}, SettingsHandle{}, err
	}
	if err := ApplyEnv(&settings); err != nil {
		return Settings{}, SettingsHandle{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, SettingsHandle{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, handle, nil
}

func loadFile(dir, path string) (Settings, SettingsHandle, error) {
	if path != "" {
		handle := SettingsHandle{Path: path, Format: formatOf(path)}
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, SettingsHandle{}, fmt.Errorf("read settings %q: %w", path, err)
		}
		settings, err := decodeSettings(data, handle.Format)
		if err != nil {
			return Settings{}, SettingsHandle{}, fmt.Errorf("parse settings %q: %w", path, err)
		}
		return settings, handle, nil
	}

	candidates := []SettingsHandle{
		{Path: filepath.Join(dir, "jswitch.toml"), Format: FormatTOML},
		{Path: filepath.Join(dir, "jswitch.json"), Format: FormatJSON},
	}

	// parse errors fail immediately but missing files just skip to the next format.
	var accumulated error
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			accumulated = errors.Join(
				accumulated,
				fmt.Errorf("read settings %q: %w", candidate.Path, err),
			)
			continue
		}

		settings, err := decodeSettings(data, candidate.Format)
		if err != nil {
			return Settings{}, SettingsHandle{}, fmt.Errorf(
				"parse settings %q: %w",
				candidate.Path,
				err,
			)
		}
		return settings, candidate, nil
	}

	if accumulated != nil {
		return Settings{}, SettingsHandle{}, accumulated
	}
	return Defaults(), SettingsHandle{Path: candidates[0].Path, Format: FormatTOML}, nil
}

func formatOf(path string) SettingsFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

func decodeSettings(data []byte, format SettingsFormat) (Settings, error) {
	settings := Defaults()
	switch format {
	case FormatTOML:
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&settings); err != nil {
			return Settings{}, err
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&settings); err != nil {
			return Settings{}, err
		}
	default:
		return Settings{}, fmt.Errorf("unsupported settings format %q", format)
	}
	return settings, nil
}

// ApplyEnv overrides settings from JSWITCH_* environment variables. An
// unset variable leaves its setting alone. The environment is re-read on
// every call, so changes made after an earlier load are seen.
func ApplyEnv(s *Settings) error {
	env.Load()
	var errs error
	if env.Has(EnvSourceLevel) {
		level, err := ParseSourceLevel(env.Str(EnvSourceLevel))
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", EnvSourceLevel, err))
		} else {
			s.SourceLevel = level
		}
	}
	if env.Has(EnvColor) {
		s.Color = strings.ToLower(strings.TrimSpace(env.Str(EnvColor)))
	}
	if env.Has(EnvDumpFormat) {
		s.DumpFormat = strings.ToLower(strings.TrimSpace(env.Str(EnvDumpFormat)))
	}
	if env.Has(EnvWarnings) {
		s.Warnings = env.Bool(EnvWarnings)
	}
	if env.Has(EnvVerbose) {
		s.Verbose = env.Bool(EnvVerbose)
	}
	return errs
}

// ParseSourceLevel accepts "17" as well as the legacy "1.8" spelling.
func ParseSourceLevel(text string) (int, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "1.")
	level, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid source level %q", text)
	}
	return level, nil
}

// Validate reports every invalid setting at once.
func (s Settings) Validate() error {
	var errs error
	if s.SourceLevel < MinSourceLevel || s.SourceLevel > MaxSourceLevel {
		errs = errors.Join(errs, fmt.Errorf(
			"source level %d outside %d..%d", s.SourceLevel, MinSourceLevel, MaxSourceLevel))
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = errors.Join(errs, fmt.Errorf(
			"unknown color mode %q (want auto, always or never)", s.Color))
	}
	switch s.DumpFormat {
	case "text", "json", "yaml":
	default:
		errs = errors.Join(errs, fmt.Errorf(
			"unknown dump format %q (want text, json or yaml)", s.DumpFormat))
	}
	return errs
}

// Encode writes the settings in the given file format.
func Encode(w io.Writer, s Settings, format SettingsFormat) error {
	switch format {
	case FormatTOML, "":
		enc := toml.NewEncoder(w)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
	default:
		return fmt.Errorf("unsupported settings format %q", format)
	}
	return nil
}
