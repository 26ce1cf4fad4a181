package templates

import (
	"context"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a template ready to be submitted to Heat.
type Document struct {
	ID       string
	Template string
	Files    map[string]string
}

// Loader resolves templates and their referenced files from a Source.
type Loader struct {
	src Source
}

// NewLoader returns a loader for src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Load reads the template id and every file it references.
//
// get_file targets are included verbatim. Resource types that name a
// template file (anything ending in .yaml, .yml or .template) are included
// and scanned in turn. References are resolved relative to the directory
// of the document that contains them.
func (l *Loader) Load(ctx context.Context, id string) (*Document, error) {
	id = path.Clean(id)
	root, err := l.src.ReadFile(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:       id,
		Template: string(root),
		Files:    map[string]string{},
	}
	visited := map[string]bool{id: true}
	if err := l.collect(ctx, id, root, doc.Files, visited); err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", id, err)
	}
	return doc, nil
}

func (l *Loader) collect(ctx context.Context, name string, data []byte, files map[string]string, visited map[string]bool) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	for _, r := range references(&node) {
		if isRemote(r.value) {
			continue
		}
		resolved := path.Join(path.Dir(name), r.value)
		if strings.HasPrefix(resolved, "../") || resolved == ".." {
			return fmt.Errorf("%s: reference %q escapes the template root", name, r.value)
		}

		content, err := l.src.ReadFile(ctx, resolved)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		files[r.value] = string(content)

		if r.nested && !visited[resolved] {
			visited[resolved] = true
			if err := l.collect(ctx, resolved, content, files, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

type reference struct {
	value  string
	nested bool
}

// references walks a parsed document and returns get_file targets and
// nested template types in document order.
func references(n *yaml.Node) []reference {
	var refs []reference
	var walk func(*yaml.Node)
	walk = func(n *yaml.Node) {
		switch n.Kind {
		case yaml.DocumentNode, yaml.SequenceNode:
			for _, c := range n.Content {
				walk(c)
			}
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key, val := n.Content[i], n.Content[i+1]
				if val.Kind == yaml.ScalarNode {
					switch {
					case key.Value == "get_file":
						refs = append(refs, reference{value: val.Value})
						continue
					case key.Value == "type" && isTemplateFile(val.Value):
						refs = append(refs, reference{value: val.Value, nested: true})
						continue
					}
				}
				walk(val)
			}
		}
	}
	walk(n)
	return refs
}

func isTemplateFile(v string) bool {
	if strings.Contains(v, "::") {
		return false
	}
	switch path.Ext(v) {
	case ".yaml", ".yml", ".template":
		return true
	}
	return false
}

func isRemote(v string) bool {
	return strings.Contains(v, "://")
}
