package rules

import (
	"fmt"
	"strings"
)

// Kind classifies a rule or pruning failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindConfigMissing
	KindEmptyConfig
	KindInvalidKey
	KindLegacyShape
	KindAllExclusivity
	KindNoTargets
	KindUnknownTarget
	KindInvalidPath
	KindEmptyValue
	KindContradiction
	KindPathNotFound
)

var kindNames = map[Kind]string{
	KindConfigMissing:  "ConfigMissing",
	KindEmptyConfig:    "EmptyConfig",
	KindInvalidKey:     "InvalidKey",
	KindLegacyShape:    "LegacyShapeError",
	KindAllExclusivity: "AllExclusivityViolation",
	KindNoTargets:      "NoTargetsDeclared",
	KindUnknownTarget:  "UnknownTarget",
	KindInvalidPath:    "InvalidPath",
	KindEmptyValue:     "EmptyValue",
	KindContradiction:  "Contradiction",
	KindPathNotFound:   "PathNotFound",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is returned for every configuration, rule and keep-path failure.
// The message is user facing and is returned verbatim by Error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is matches sentinels by kind, so errors.Is(err, ErrPathNotFound) holds
// for any PathNotFound error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// Sentinels for errors.Is.
var (
	ErrConfigMissing  = &Error{Kind: KindConfigMissing}
	ErrEmptyConfig    = &Error{Kind: KindEmptyConfig}
	ErrInvalidKey     = &Error{Kind: KindInvalidKey}
	ErrLegacyShape    = &Error{Kind: KindLegacyShape}
	ErrAllExclusivity = &Error{Kind: KindAllExclusivity}
	ErrNoTargets      = &Error{Kind: KindNoTargets}
	ErrUnknownTarget  = &Error{Kind: KindUnknownTarget}
	ErrInvalidPath    = &Error{Kind: KindInvalidPath}
	ErrEmptyValue     = &Error{Kind: KindEmptyValue}
	ErrContradiction  = &Error{Kind: KindContradiction}
	ErrPathNotFound   = &Error{Kind: KindPathNotFound}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// PathNotFound builds the error returned when a keep path does not resolve.
func PathNotFound(path string) *Error {
	return newError(KindPathNotFound, "File not found: %s", path)
}

// EscapesRoot builds the error for a path that resolves outside the package root.
func EscapesRoot(path string) *Error {
	return newError(KindInvalidPath, "Path escapes the package root: %s", path)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
