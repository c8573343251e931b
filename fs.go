package dispatchgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// FS is a pseudo-filesystem that supports batch-writing its contents
// to the real filesystem, or batch-comparing its contents to the real
// filesystem. Its intended use is for idiomatic `go generate`-style code
// generators, where it is expected that the results of codegen are committed to
// version control.
//
// In such cases, the normal behavior of a generator is to write files to disk,
// but in CI, that behavior should change to verify that what is already on disk
// is identical to the results of code generation. This allows CI to ensure that
// the results of code generation are always up to date. FS supports
// these related behaviors through its Write() and Verify() methods, respectively.
//
// Note that the statelessness of FS means that, if a particular input
// to the code generator goes away, it will not notice generated files left
// behind if their inputs are removed.
//
// Files may not be removed once [FS.Add]ed. If a path conflict occurs
// when adding a new file or merging another FS, an error is returned.
type FS struct {
	mu    sync.Mutex
	files map[string]fsFile
}

type fsFile struct {
	data  []byte
	owner string
}

// ShouldExistErr is an error that indicates a file should exist, but does not.
type ShouldExistErr struct {
	Path string
}

func (e *ShouldExistErr) Error() string {
	return fmt.Sprintf("%s: generated file should exist, but does not", e.Path)
}

// ContentsDifferErr is an error that indicates the contents of a file on disk are
// different than those in the FS.
type ContentsDifferErr struct {
	Path string

	// Diff between the file on disk and the generated contents.
	Diff string
}

func (e *ContentsDifferErr) Error() string {
	return fmt.Sprintf("%s would have changed:\n\n%s", e.Path, e.Diff)
}

// NewFS creates a new FS, ready for use.
func NewFS() *FS {
	return &FS{
		files: make(map[string]fsFile),
	}
}

type writeSlice []struct {
	path     string
	contents []byte
}

// Len returns the number of files in the FS.
func (wd *FS) Len() int {
	wd.mu.Lock()
	defer wd.mu.Unlock()
	return len(wd.files)
}

// Verify checks the contents of each file against the filesystem. It emits an error
// if any of its contained files differ.
//
// If the provided prefix path is non-empty, it will be prepended to all file
// entries in the map for writing. prefix may be an absolute path.
func (wd *FS) Verify(ctx context.Context, prefix string) error {
	wd.mu.Lock()
	defer wd.mu.Unlock()
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(12)

	var resmu sync.Mutex
	var result *multierror.Error
	appendResult := func(err error) {
		resmu.Lock()
		result = multierror.Append(result, err)
		resmu.Unlock()
	}

	for _, it := range wd.toSlice() {
		item := it
		g.Go(func() error {
			ipath := filepath.Join(prefix, item.path)
			ob, err := os.ReadFile(ipath) //nolint:gosec
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					appendResult(&ShouldExistErr{Path: ipath})
					return nil
				}
				return fmt.Errorf("%s: error reading file: %w", ipath, err)
			}
			if dstr := cmp.Diff(string(ob), string(item.contents)); dstr != "" {
				appendResult(&ContentsDifferErr{Path: ipath, Diff: dstr})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("io error while verifying tree: %w", err)
	}

	return result.ErrorOrNil()
}

// Write writes all of the files to their indicated paths.
//
// If the provided prefix path is non-empty, it will be prepended to all file
// entries in the map for writing. prefix may be an absolute path.
func (wd *FS) Write(ctx context.Context, prefix string) error {
	wd.mu.Lock()
	defer wd.mu.Unlock()
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(12)

	for _, item := range wd.toSlice() {
		it := item
		g.Go(func() error {
			path := filepath.Join(prefix, it.path)
			if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
				return fmt.Errorf("%s: failed to ensure parent directory exists: %w", path, err)
			}

			if err := os.WriteFile(path, it.contents, 0644); err != nil {
				return fmt.Errorf("%s: error while writing file: %w", path, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (wd *FS) toSlice() writeSlice {
	sl := make(writeSlice, 0, len(wd.files))
	for k, v := range wd.files {
		sl = append(sl, struct {
			path     string
			contents []byte
		}{
			path:     k,
			contents: v.data,
		})
	}

	sort.Slice(sl, func(i, j int) bool {
		return sl[i].path < sl[j].path
	})

	return sl
}

// AsFiles returns the contents of the FS as a sorted Files.
func (wd *FS) AsFiles() Files {
	wd.mu.Lock()
	defer wd.mu.Unlock()

	fl := make(Files, 0, len(wd.files))
	for _, it := range wd.toSlice() {
		fl = append(fl, File{
			RelativePath: it.path,
			Data:         it.contents,
			From:         []NamedJenny{ownerName(wd.files[it.path].owner)},
		})
	}
	return fl
}

// Add adds one or more files to the FS. An error is returned if any of
// the provided files would conflict a file already added to the FS, or
// with each other.
func (wd *FS) Add(flist ...File) error {
	if err := Files(flist).Validate(); err != nil {
		return err
	}
	return wd.addValidated(flist...)
}

func (wd *FS) addValidated(flist ...File) error {
	wd.mu.Lock()
	defer wd.mu.Unlock()

	var result *multierror.Error
	for _, f := range flist {
		if rf, has := wd.files[f.RelativePath]; has {
			result = multierror.Append(result, fmt.Errorf("FS cannot create %s for %q, already created for %q", f.RelativePath, jennystack(f.From), rf.owner))
		}
	}
	if result.ErrorOrNil() != nil {
		return result
	}

	for _, f := range flist {
		wd.files[f.RelativePath] = fsFile{
			data:  f.Data,
			owner: jennystack(f.From),
		}
	}
	return nil
}

// Merge combines all the entries from the provided FS into the callee
// FS. Duplicate paths result in an error.
func (wd *FS) Merge(wd2 *FS) error {
	if wd2 == nil {
		return nil
	}
	return wd.addValidated(wd2.AsFiles()...)
}

// ownerName records the owner of a file as a NamedJenny once the original
// jenny values are no longer around.
type ownerName string

func (o ownerName) JennyName() string {
	return string(o)
}
