package combine

import (
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) isDir() bool {
	return n.children != nil
}

// RenderTree draws the directory structure of relPaths below a root line. Directories
// come before files and names are ordered case-insensitively.
func RenderTree(root string, relPaths []string) string {
	top := &treeNode{children: map[string]*treeNode{}}
	for _, rel := range relPaths {
		node := top
		parts := strings.Split(strings.Trim(rel, "/"), "/")
		for i, part := range parts {
			if part == "" {
				continue
			}
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part}
				node.children[part] = child
			}
			if i < len(parts)-1 && child.children == nil {
				child.children = map[string]*treeNode{}
			}
			node = child
		}
	}

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(root, "/") + "/\n")
	writeTree(&b, top, "")
	return b.String()
}

func writeTree(b *strings.Builder, node *treeNode, prefix string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		entries = append(entries, child)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir() != entries[j].isDir() {
			return entries[i].isDir()
		}
		li, lj := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
		if li != lj {
			return li < lj
		}
		return entries[i].name < entries[j].name
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		b.WriteString(prefix + connector + entry.name)
		if entry.isDir() {
			b.WriteString("/\n")
			writeTree(b, entry, prefix+extension)
			continue
		}
		b.WriteString("\n")
	}
}
