package service

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// treeEntry is one row of a rendered directory map.
type treeEntry struct {
	depth int
	name  string
	isDir bool
}

// TreeMapper renders a project tree with box-drawing connectors, the
// preview companion to a migration plan.
type TreeMapper struct {
	// ExcludeDirs are directory names skipped entirely.
	ExcludeDirs map[string]bool

	// ExcludeExtensions are file suffixes left out of the map.
	ExcludeExtensions []string
}

// NewTreeMapper creates a tree mapper with the usual noise excluded
func NewTreeMapper() *TreeMapper {
	return &TreeMapper{
		ExcludeDirs: map[string]bool{
			"__pycache__": true,
			".git":        true,
			".idea":       true,
			".vscode":     true,
			".venv":       true,
			"venv":        true,
		},
		ExcludeExtensions: []string{".pyc", ".pyo", ".pyd", ".log"},
	}
}

// Render writes the tree rooted at root to w.
func (tm *TreeMapper) Render(w io.Writer, root string) error {
	entries, err := tm.collect(root)
	if err != nil {
		return err
	}

	for i, entry := range entries {
		prefix := strings.Repeat("│   ", entry.depth)
		connector := "├──"
		if i == len(entries)-1 || entries[i+1].depth <= entry.depth {
			connector = "└──"
		}
		suffix := ""
		if entry.isDir {
			suffix = "/"
		}
		fmt.Fprintf(w, "%s%s %s%s\n", prefix, connector, entry.name, suffix)
	}
	return nil
}

// collect walks the tree depth first, directories before their contents,
// siblings sorted by name.
func (tm *TreeMapper) collect(root string) ([]treeEntry, error) {
	var entries []treeEntry

	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		children, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })

		var dirs, files []fs.DirEntry
		for _, child := range children {
			if child.IsDir() {
				if !tm.ExcludeDirs[child.Name()] {
					dirs = append(dirs, child)
				}
			} else if !tm.excludedFile(child.Name()) {
				files = append(files, child)
			}
		}

		for _, sub := range dirs {
			entries = append(entries, treeEntry{depth: depth, name: sub.Name(), isDir: true})
			if err := walk(filepath.Join(dir, sub.Name()), depth+1); err != nil {
				return err
			}
		}
		for _, file := range files {
			entries = append(entries, treeEntry{depth: depth, name: file.Name(), isDir: false})
		}
		return nil
	}

	if err := walk(root, 0); err != nil {
		return nil, err
	}
	return entries, nil
}

func (tm *TreeMapper) excludedFile(name string) bool {
	for _, ext := range tm.ExcludeExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
