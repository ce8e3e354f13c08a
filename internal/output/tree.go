// Package output renders snapshot structure and terminal summaries.
package output

import (
	"io"
	"path"
	"sort"
	"strings"

	"github.com/temirov/multicodex/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directoryMarker  = "/"
	currentDirectory = "."
	lineBreak        = "\n"
)

type treeNode struct {
	name        string
	path        string
	isDirectory bool
	children    map[string]*treeNode
}

func newDirectoryNode(name string, nodePath string) *treeNode {
	return &treeNode{name: name, path: nodePath, isDirectory: true, children: map[string]*treeNode{}}
}

// RenderTree draws the included entries as an ASCII tree whose first line is rootName.
// Directories precede files at every level and both groups sort case-insensitively,
// so any permutation of the same entries yields byte-identical output.
func RenderTree(rootName string, entries []types.WorkingTreeEntry) string {
	var builder strings.Builder
	rootNode := buildTree(rootName, entries)
	builder.WriteString(rootName + lineBreak)
	children := sortedChildren(rootNode)
	for index, child := range children {
		renderTreeNode(&builder, child, "", index == len(children)-1)
	}
	return builder.String()
}

// OrderedFiles returns the file paths of entries in the order RenderTree draws them.
func OrderedFiles(entries []types.WorkingTreeEntry) []string {
	rootNode := buildTree("", entries)
	var filePaths []string
	collectFiles(rootNode, &filePaths)
	return filePaths
}

func buildTree(rootName string, entries []types.WorkingTreeEntry) *treeNode {
	rootNode := newDirectoryNode(rootName, "")
	for _, entry := range entries {
		cleanedPath := cleanEntryPath(entry.Path)
		if cleanedPath == "" {
			continue
		}
		segments := strings.Split(cleanedPath, directoryMarker)
		currentNode := rootNode
		for index, segment := range segments {
			isLeaf := index == len(segments)-1
			childNode, exists := currentNode.children[segment]
			if !exists {
				childPath := segment
				if currentNode.path != "" {
					childPath = currentNode.path + directoryMarker + segment
				}
				if isLeaf && !entry.IsDir() {
					childNode = &treeNode{name: segment, path: childPath}
				} else {
					childNode = newDirectoryNode(segment, childPath)
				}
				currentNode.children[segment] = childNode
			} else if !childNode.isDirectory && (!isLeaf || entry.IsDir()) {
				childNode.isDirectory = true
				childNode.children = map[string]*treeNode{}
			}
			currentNode = childNode
		}
	}
	return rootNode
}

func cleanEntryPath(entryPath string) string {
	cleanedPath := path.Clean(strings.ReplaceAll(entryPath, "\\", directoryMarker))
	cleanedPath = strings.TrimPrefix(cleanedPath, directoryMarker)
	if cleanedPath == currentDirectory {
		return ""
	}
	return cleanedPath
}

func sortedChildren(node *treeNode) []*treeNode {
	children := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		children = append(children, child)
	}
	sort.Slice(children, func(left, right int) bool {
		leftNode, rightNode := children[left], children[right]
		if leftNode.isDirectory != rightNode.isDirectory {
			return leftNode.isDirectory
		}
		leftFolded, rightFolded := strings.ToLower(leftNode.name), strings.ToLower(rightNode.name)
		if leftFolded != rightFolded {
			return leftFolded < rightFolded
		}
		return leftNode.name < rightNode.name
	})
	return children
}

func collectFiles(node *treeNode, filePaths *[]string) {
	for _, child := range sortedChildren(node) {
		if child.isDirectory {
			collectFiles(child, filePaths)
			continue
		}
		*filePaths = append(*filePaths, child.path)
	}
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

func renderTreeNode(writer io.StringWriter, node *treeNode, prefix string, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isLast)
	if !node.isDirectory {
		_, _ = writer.WriteString(linePrefix + node.name + lineBreak)
		return
	}
	_, _ = writer.WriteString(linePrefix + node.name + directoryMarker + lineBreak)
	children := sortedChildren(node)
	for index, child := range children {
		renderTreeNode(writer, child, childPrefix, index == len(children)-1)
	}
}
