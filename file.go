package dispatchgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// File is a single file produced by a jenny.
type File struct {
	// The relative path to which the generated file should be written.
	RelativePath string

	// Contents of the generated file.
	Data []byte

	// From is the stack of jennies responsible for producing this File.
	From []NamedJenny
}

// NewFile makes it slightly more ergonomic to create a new File than
// with a raw struct declaration.
func NewFile(path string, data []byte, from ...NamedJenny) *File {
	return &File{
		RelativePath: path,
		Data:         data,
		From:         from,
	}
}

// Exists reports whether the File has contents.
func (f File) Exists() bool {
	return len(f.Data) > 0
}

// ToFS turns a single File into an FS containing only that file.
//
// An error is only possible if an absolute path is provided.
func (f *File) ToFS() (*FS, error) {
	wd := NewFS()
	if err := wd.Add(*f); err != nil {
		return nil, err
	}
	return wd, nil
}

// Files is a set of File objects.
//
// A Files is [Files.Validate] if all paths are relative and unique.
type Files []File

// Validate checks that all contained files have a relative path, and that
// no paths are duplicated.
func (fsl Files) Validate() error {
	var result *multierror.Error
	paths := make(map[string]File, len(fsl))
	for _, f := range fsl {
		if filepath.IsAbs(f.RelativePath) {
			result = multierror.Append(result, fmt.Errorf("files must have relative paths, got %s from %s", f.RelativePath, jennystack(f.From)))
		}
		if prev, has := paths[f.RelativePath]; has {
			result = multierror.Append(result, fmt.Errorf("multiple files at path %s from %s and %s", f.RelativePath, jennystack(prev.From), jennystack(f.From)))
			continue
		}
		paths[f.RelativePath] = f
	}
	return result.ErrorOrNil()
}

// FileMapper takes a File and transforms it into a new File.
//
// dispatchgen generally assumes that FileMappers will reuse an unmodified
// byte slice.
type FileMapper func(File) (File, error)

func jennystack(s []NamedJenny) string {
	if len(s) == 0 {
		return "<unknown>"
	}
	names := make([]string, len(s))
	for i, j := range s {
		names[i] = j.JennyName()
	}
	return strings.Join(names, ":")
}
