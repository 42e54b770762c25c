package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Set writes a single value into the configuration file, creating the file
// when it does not exist. The key uses dotted section.key form, for example
// "whisper.backend". Existing values in other sections are preserved.
//
// The path argument follows the same resolution rules as Load; pass "" to
// target the DISTILL_CONFIG or default location.
func Set(path, key, value string) (string, error) {
	section, attr, found := strings.Cut(key, ".")
	section = strings.TrimSpace(section)
	attr = strings.TrimSpace(attr)
	if !found || section == "" || attr == "" {
		return "", fmt.Errorf("key must be in section.key format, got %q", key)
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return "", err
	}

	data := map[string]map[string]any{}
	if exists {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return "", fmt.Errorf("read config: %w", err)
		}
		var decoded map[string]any
		if err := toml.Unmarshal(raw, &decoded); err != nil {
			return "", fmt.Errorf("parse config: %w", err)
		}
		for name, entry := range decoded {
			if table, ok := entry.(map[string]any); ok {
				data[name] = table
				continue
			}
			// Bare top-level keys belong to [general].
			general := data["general"]
			if general == nil {
				general = map[string]any{}
				data["general"] = general
			}
			general[name] = entry
		}
	}

	target := data[section]
	if target == nil {
		target = map[string]any{}
		data[section] = target
	}
	target[attr] = coerceValue(value)

	encoded, err := toml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolvedPath), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(resolvedPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return resolvedPath, nil
}

// coerceValue converts CLI string input into the TOML type the typed Config
// fields expect, so a later Load decodes without type mismatches.
func coerceValue(value string) any {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	return trimmed
}
