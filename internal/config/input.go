package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input is the assembled configuration tree of one render run.
type Input struct {
	Tree map[string]any

	// SectionOrder preserves the cv.sections key order of the input
	// file, lost when YAML mappings become Go maps.
	SectionOrder []string

	// Dir is the input file's directory; custom themes resolve
	// against it.
	Dir string
}

// ReadFile reads and decodes one YAML file into a configuration tree.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return tree, nil
}

// ReadInput builds the full input tree the way the render command sees
// it: the main file first, then any separate per-field files (each
// replacing exactly its top-level field), then dotted-path overrides.
func ReadInput(path string, fieldFiles map[string]string, overrides map[string]string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	var tree map[string]any
	if err := root.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if tree == nil {
		tree = map[string]any{}
	}

	for field, filePath := range fieldFiles {
		fieldTree, err := ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		value, ok := fieldTree[field]
		if !ok {
			return nil, fmt.Errorf("%s does not contain a top-level %q field", filePath, field)
		}
		tree[field] = value
	}

	tree, err = ApplyMany(tree, overrides)
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	return &Input{
		Tree:         tree,
		SectionOrder: sectionOrder(&root),
		Dir:          dir,
	}, nil
}

// ParseOverridePairs turns trailing command tokens into override
// instructions. Tokens come in pairs: a `--dotted.path` key followed by
// its value. An odd number of tokens or a key without the leading
// dashes is a fatal input error.
func ParseOverridePairs(args []string) (map[string]string, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("each override key should have a corresponding value, got %d tokens", len(args))
	}
	overrides := make(map[string]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key := args[i]
		if !strings.HasPrefix(key, "--") {
			return nil, fmt.Errorf("override key %q should start with double dashes", key)
		}
		overrides[strings.TrimPrefix(key, "--")] = args[i+1]
	}
	return overrides, nil
}

// sectionOrder walks the decoded document node down to cv.sections and
// returns its mapping keys in file order.
func sectionOrder(root *yaml.Node) []string {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	sections := mappingValue(mappingValue(doc, "cv"), "sections")
	if sections == nil || sections.Kind != yaml.MappingNode {
		return nil
	}
	order := make([]string, 0, len(sections.Content)/2)
	for i := 0; i+1 < len(sections.Content); i += 2 {
		order = append(order, sections.Content[i].Value)
	}
	return order
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
