package fileappender

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/spf13/afero"
)

// ErrRotate is wrapped by every rename or delete failure during rotation
var ErrRotate = errors.New("fileappender: rotation failed")

// NumberedFile is one member of a rotation set
type NumberedFile struct {
	Name  string
	Index int // 0 for the unsuffixed current file
}

// filePattern matches prefix, optional digits and ext exactly
func filePattern(prefix, ext string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d*)` + regexp.QuoteMeta(ext) + "$")
}

// NumberedName returns the file name for index. Index 0 is the current file.
func NumberedName(prefix, ext string, index int) string {
	if index == 0 {
		return prefix + ext
	}
	return prefix + strconv.Itoa(index) + ext
}

// ListNumbered returns the files in dir that belong to the rotation set of
// prefix and ext, oldest first.
func ListNumbered(fs afero.Fs, dir, prefix, ext string) ([]NumberedFile, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	re := filePattern(prefix, ext)
	var files []NumberedFile
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(info.Name())
		if m == nil {
			continue
		}
		index := 0
		if m[1] != "" {
			index, err = strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %s has no usable index: %v", ErrRotate, info.Name(), err)
			}
		}
		files = append(files, NumberedFile{Name: info.Name(), Index: index})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Index != files[j].Index {
			return files[i].Index > files[j].Index
		}
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// Rotate makes room for a new current file in dir. Files beyond
// maxFiles-1 are deleted from the oldest end, the remaining ones are
// renamed to the next index and a fresh empty current file is created.
func Rotate(fs afero.Fs, dir, prefix, ext string, maxFiles int) error {
	if maxFiles < 1 {
		return fmt.Errorf("fileappender: maxFiles must be at least 1, got %d", maxFiles)
	}

	files, err := ListNumbered(fs, dir, prefix, ext)
	if err != nil {
		return err
	}

	for len(files) > maxFiles-1 {
		path := filepath.Join(dir, files[0].Name)
		if err := fs.Remove(path); err != nil {
			return fmt.Errorf("%w: remove %s: %v", ErrRotate, path, err)
		}
		files = files[1:]
	}

	for _, f := range files {
		from := filepath.Join(dir, f.Name)
		to := filepath.Join(dir, NumberedName(prefix, ext, f.Index+1))
		if err := rename(fs, from, to); err != nil {
			return err
		}
	}

	current, err := fs.OpenFile(filepath.Join(dir, NumberedName(prefix, ext, 0)), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	return current.Close()
}

// rename moves from to to and refuses to overwrite an existing file
func rename(fs afero.Fs, from, to string) error {
	if _, err := fs.Stat(to); err == nil {
		return fmt.Errorf("%w: rename %s: %s already exists", ErrRotate, from, to)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat %s: %v", ErrRotate, to, err)
	}
	if err := fs.Rename(from, to); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrRotate, from, err)
	}
	return nil
}
