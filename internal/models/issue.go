package models

import "strings"

// Level is the severity of a validation issue.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Issue is a single validation finding. Issues are pure data; validation
// never mutates the graph.
type Issue struct {
	Level   Level  `json:"level"`
	UID     string `json:"uid,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Subject returns the item UID if set, otherwise the document prefix.
func (i Issue) Subject() string {
	if i.UID != "" {
		return i.UID
	}
	return i.Prefix
}

func (i Issue) String() string {
	parts := []string{"[" + strings.ToUpper(string(i.Level)) + "]"}
	if s := i.Subject(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, i.Message)
	return strings.Join(parts, " ")
}

// Issues is a list of findings with severity helpers.
type Issues []Issue

// HasErrors reports whether any issue is error-level.
func (is Issues) HasErrors() bool {
	for _, i := range is {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}

// Count returns the number of issues at the given level.
func (is Issues) Count(level Level) int {
	n := 0
	for _, i := range is {
		if i.Level == level {
			n++
		}
	}
	return n
}
