// Package config assembles the configuration tree of a render run: it
// reads the input file, merges separate per-field files, applies
// dotted-path CLI overrides, and carries the render command settings.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidPath marks a dotted path that does not fit the tree it
	// is applied to, e.g. a non-integer segment addressing a sequence.
	ErrInvalidPath = errors.New("invalid override path")

	// ErrIndexOutOfRange marks a sequence index outside the sequence.
	ErrIndexOutOfRange = errors.New("sequence index out of range")

	// ErrInvalidValue marks a brace- or bracket-delimited override value
	// that is not decodable.
	ErrInvalidValue = errors.New("invalid override value")
)

// Apply sets value at the dotted path in tree and returns the updated
// tree. A segment parsing as a non-negative integer addresses a sequence
// index, any other segment a mapping key. Missing intermediate segments
// are created as empty mappings. The original tree is never modified: on
// error it is returned unchanged, containers on the touched path are
// copied before mutation.
//
// Example: Apply(tree, "cv.sections.education.0.institution", "MIT").
func Apply(tree map[string]any, path, value string) (map[string]any, error) {
	decoded, err := decodeValue(value)
	if err != nil {
		return tree, err
	}
	segments := strings.Split(path, ".")
	updated, err := applySegments(tree, segments, decoded, path)
	if err != nil {
		return tree, err
	}
	return updated.(map[string]any), nil
}

// ApplyMany applies every (path, value) instruction in sorted path
// order, so overrides creating parent containers run before overrides
// targeting their children. A failed instruction leaves the tree as the
// previous instruction left it.
func ApplyMany(tree map[string]any, overrides map[string]string) (map[string]any, error) {
	paths := make([]string, 0, len(overrides))
	for path := range overrides {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var err error
	for _, path := range paths {
		tree, err = Apply(tree, path, overrides[path])
		if err != nil {
			return tree, fmt.Errorf("applying override %q: %w", path, err)
		}
	}
	return tree, nil
}

// decodeValue turns an override value into its structured form. Brace-
// and bracket-delimited values are YAML flow literals; everything else
// stays a string.
func decodeValue(value string) (any, error) {
	trimmed := strings.TrimSpace(value)
	isMapping := strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
	isSequence := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
	if !isMapping && !isSequence {
		return value, nil
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, value, err)
	}
	return decoded, nil
}

func applySegments(container any, segments []string, value any, fullPath string) (any, error) {
	segment := segments[0]
	leaf := len(segments) == 1

	switch c := container.(type) {
	case []any:
		index, err := strconv.Atoi(segment)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("%w: segment %q of %q addresses a sequence but is not a non-negative integer", ErrInvalidPath, segment, fullPath)
		}
		if index >= len(c) {
			return nil, fmt.Errorf("%w: index %d of %q exceeds sequence length %d", ErrIndexOutOfRange, index, fullPath, len(c))
		}
		updated := append([]any(nil), c...)
		if leaf {
			updated[index] = value
			return updated, nil
		}
		child, err := applySegments(childContainer(c[index]), segments[1:], value, fullPath)
		if err != nil {
			return nil, err
		}
		updated[index] = child
		return updated, nil

	case map[string]any:
		updated := make(map[string]any, len(c)+1)
		for k, v := range c {
			updated[k] = v
		}
		if leaf {
			updated[segment] = value
			return updated, nil
		}
		child, err := applySegments(childContainer(c[segment]), segments[1:], value, fullPath)
		if err != nil {
			return nil, err
		}
		updated[segment] = child
		return updated, nil

	default:
		return nil, fmt.Errorf("%w: segment %q of %q addresses a scalar", ErrInvalidPath, segment, fullPath)
	}
}

// childContainer returns the existing child to descend into, or a fresh
// empty mapping when the child is missing or a scalar. Intermediate
// containers are always mappings, never sequences.
func childContainer(child any) any {
	switch child.(type) {
	case map[string]any, []any:
		return child
	default:
		return map[string]any{}
	}
}
