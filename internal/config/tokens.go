package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"seasonwatch/internal/services"
)

const tokensSection = "tokens"

// Token keys accepted by SetToken.
const (
	TokenTMDB    = "tmdb"
	TokenOMDb    = "omdb"
	TokenDiscogs = "discogs"
)

// SetToken writes key = "value" into the [tokens] section of the file at path.
// Only that line changes; comments, ordering and unrelated sections are kept
// byte for byte. A missing section or key is appended, and a missing file is
// created.
func SetToken(path, key, value string) error {
	switch key {
	case TokenTMDB, TokenOMDb, TokenDiscogs:
	default:
		return services.Wrap(services.ErrValidation, "config", "set token", fmt.Sprintf("unknown token %q", key), nil)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return services.Wrap(services.ErrValidation, "config", "set token", "token must not be empty", nil)
	}
	if strings.ContainsFunc(value, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return services.Wrap(services.ErrValidation, "config", "set token", "token contains control characters", nil)
	}

	expanded, err := expandPath(path)
	if err != nil {
		return configError("set token", err)
	}
	original, err := os.ReadFile(expanded)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return configError("read config", err)
	}

	updated := rewriteToken(string(original), key, value)

	var probe Config
	if err := toml.Unmarshal([]byte(updated), &probe); err != nil {
		return configError("set token", fmt.Errorf("rewritten config no longer parses: %w", err))
	}
	return writeAtomic(expanded, []byte(updated))
}

func rewriteToken(content, key, value string) string {
	assignment := fmt.Sprintf("%s = %s", key, quoteTOML(value))
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	inSection := false
	sectionFound := false
	insertAt := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if name, ok := sectionName(trimmed); ok {
			if inSection {
				break
			}
			inSection = strings.EqualFold(name, tokensSection)
			if inSection {
				sectionFound = true
				insertAt = i + 1
			}
			continue
		}
		if !inSection {
			continue
		}
		if lineKey(trimmed) == key {
			lines[i] = leadingSpace(line) + assignment + lineEnding(line)
			return strings.Join(lines, "")
		}
		if trimmed != "" {
			insertAt = i + 1
		}
	}

	if sectionFound {
		if insertAt > 0 && !strings.HasSuffix(lines[insertAt-1], "\n") {
			lines[insertAt-1] += "\n"
		}
		rest := append([]string{assignment + "\n"}, lines[insertAt:]...)
		return strings.Join(append(lines[:insertAt:insertAt], rest...), "")
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, ""))
	if b.Len() > 0 {
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("[" + tokensSection + "]\n")
	b.WriteString(assignment + "\n")
	return b.String()
}

func sectionName(trimmed string) (string, bool) {
	if strings.HasPrefix(trimmed, "[[") || !strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	end := strings.Index(trimmed, "]")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(trimmed[1:end]), true
}

func lineKey(trimmed string) string {
	if strings.HasPrefix(trimmed, "#") {
		return ""
	}
	eq := strings.Index(trimmed, "=")
	if eq < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(trimmed[:eq]), `"'`)
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}

func quoteTOML(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + replacer.Replace(value) + `"`
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return configError("create config directory", err)
	}
	mode := fs.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return configError("write config", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return configError("write config", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return configError("write config", err)
	}
	if err := tmp.Close(); err != nil {
		return configError("write config", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return configError("replace config", err)
	}
	return nil
}
