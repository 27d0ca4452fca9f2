// Package keygen generates Go constants for the key paths of a translation
// dataset, so call sites reference keys.HeroTitle instead of "hero.title"
// string literals that drift out of sync with the dataset.
package keygen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
)

// Flatten returns the dot-delimited paths of every leaf in a dataset tree,
// sorted. Branch maps recurse; everything else is a leaf.
func Flatten(tree map[string]any) []string {
	var paths []string
	flattenInto(tree, "", &paths)
	sort.Strings(paths)
	return paths
}

func flattenInto(tree map[string]any, prefix string, paths *[]string) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if branch, ok := value.(map[string]any); ok {
			flattenInto(branch, path, paths)
			continue
		}
		*paths = append(*paths, path)
	}
}

// ConstName derives a Go constant name from a key path, e.g. "hero.cta_label"
// becomes "HeroCtaLabel".
func ConstName(path string) string {
	return strcase.ToCamel(strings.NewReplacer(".", "_", "-", "_").Replace(path))
}

// Generate renders a gofmt-formatted Go source file declaring one constant
// per key path of the tree. It fails when two paths map to the same constant
// name.
func Generate(tree map[string]any, pkg string) ([]byte, error) {
	paths := Flatten(tree)
	if len(paths) == 0 {
		return nil, fmt.Errorf("dataset has no keys")
	}

	seen := make(map[string]string, len(paths))
	var buf bytes.Buffer
	buf.WriteString("// Code generated by weblocale-gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	buf.WriteString("const (\n")
	for _, path := range paths {
		name := ConstName(path)
		if previous, ok := seen[name]; ok {
			return nil, fmt.Errorf("key paths %q and %q both map to constant %s", previous, path, name)
		}
		seen[name] = path
		fmt.Fprintf(&buf, "\t%s = %q\n", name, path)
	}
	buf.WriteString(")\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}
