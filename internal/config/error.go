package config

import (
	"fmt"
	"strings"
)

// ConfigError collects every problem found while loading a config file.
type ConfigError struct {
	Path    string   // file the problems were found in
	Missing []string // unresolved ${VAR} references
	Errors  []string // failed validations, "section.key: reason"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("validation failed:")
		for _, msg := range e.Errors {
			b.WriteString("\n  - " + msg)
		}
	}
	return b.String()
}

// HasErrors reports whether any problem was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
