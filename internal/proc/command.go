package proc

import (
	"sort"
	"strings"
)

// Spec describes one transcriber invocation.
type Spec struct {
	Executable     string
	InputPath      string
	Model          string
	DetectLanguage bool
	MarkerPath     string
	ProgressPath   string
	// Options are opaque caller-supplied flags passed through as
	// "--key value" pairs in sorted key order. Keys that collide with the
	// reserved flags above are ignored.
	Options map[string]string
}

var reservedOptions = map[string]struct{}{
	"model":             {},
	"completion-marker": {},
	"progress-file":     {},
	"detect-language":   {},
}

// Args renders the argument vector, excluding the executable itself.
func (s Spec) Args() []string {
	args := []string{s.InputPath}
	if s.Model != "" {
		args = append(args, "--model", s.Model)
	}
	if s.MarkerPath != "" {
		args = append(args, "--completion-marker", s.MarkerPath)
	}
	if s.ProgressPath != "" {
		args = append(args, "--progress-file", s.ProgressPath)
	}
	if s.DetectLanguage {
		args = append(args, "--detect-language")
	}

	passthrough := make(map[string]string, len(s.Options))
	for key, value := range s.Options {
		normalized := normalizeOptionKey(key)
		if normalized == "" {
			continue
		}
		if _, reserved := reservedOptions[normalized]; reserved {
			continue
		}
		passthrough[normalized] = value
	}
	keys := make([]string, 0, len(passthrough))
	for key := range passthrough {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "--"+key, passthrough[key])
	}
	return args
}

func normalizeOptionKey(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(key)), "_", "-")
}
