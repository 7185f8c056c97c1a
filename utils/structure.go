package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirStructure represents a directory structure with permissions that should be enforced.
type DirStructure struct {
	Path     string
	Dir      string
	Perm     os.FileMode
	Parent   *DirStructure
	Children map[string]*DirStructure
}

// NewDirStructure returns a new DirStructure.
func NewDirStructure(path string, perm os.FileMode) *DirStructure {
	return &DirStructure{
		Path:     path,
		Perm:     perm,
		Children: make(map[string]*DirStructure),
	}
}

// ChildDir adds a new child DirStructure and returns it. Should the child
// already exist, the existing child is returned and the permissions are updated.
func (ds *DirStructure) ChildDir(dirName string, perm os.FileMode) (child *DirStructure) {
	// if exists, update
	child, ok := ds.Children[dirName]
	if ok {
		child.Perm = perm
		return child
	}

	// create new
	newDir := &DirStructure{
		Path:     filepath.Join(ds.Path, dirName),
		Dir:      dirName,
		Perm:     perm,
		Parent:   ds,
		Children: make(map[string]*DirStructure),
	}
	ds.Children[dirName] = newDir
	return newDir
}

// Ensure ensures that the specified directory structure (from the first parent on) exists.
func (ds *DirStructure) Ensure() error {
	return ds.EnsureAbsPath(ds.Path)
}

// EnsureRelPath ensures that the specified directory structure (from the first
// parent on) and the given relative path (to the DirStructure) exists.
func (ds *DirStructure) EnsureRelPath(dirPath string) error {
	return ds.EnsureAbsPath(filepath.Join(ds.Path, dirPath))
}

// EnsureRelDir ensures that the specified directory structure (from the first
// parent on) and the given relative path (to the DirStructure) exists.
func (ds *DirStructure) EnsureRelDir(dirNames ...string) error {
	return ds.EnsureAbsPath(filepath.Join(append([]string{ds.Path}, dirNames...)...))
}

// EnsureAbsPath ensures that the specified directory structure (from the first
// parent on) and the given absolute path exists.
func (ds *DirStructure) EnsureAbsPath(dirPath string) error {
	// always start at the top
	if ds.Parent != nil {
		return ds.Parent.EnsureAbsPath(dirPath)
	}

	// check path
	if !strings.HasPrefix(dirPath, ds.Path) {
		return fmt.Errorf(`path "%s" is outside of directory structure scope (%s)`, dirPath, ds.Path)
	}

	// split path into parts
	relPath := strings.TrimPrefix(dirPath, ds.Path)
	relPath = strings.Trim(relPath, string(filepath.Separator))
	var pathParts []string
	if relPath != "" {
		pathParts = strings.Split(relPath, string(filepath.Separator))
	}

	return ds.ensure(pathParts)
}

func (ds *DirStructure) ensure(pathParts []string) error {
	err := EnsureDirectory(ds.Path, ds.Perm)
	if err != nil {
		return err
	}

	// check if finished
	if len(pathParts) == 0 {
		return nil
	}

	// get or create child
	child, ok := ds.Children[pathParts[0]]
	if !ok {
		// unregistered directories inherit the permissions of their parent
		child = ds.ChildDir(pathParts[0], ds.Perm)
	}

	// go deeper
	return child.ensure(pathParts[1:])
}
