package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"emocorpus/internal/fileutil"
)

// audioExt is matched case-insensitively; some corpus mirrors ship .WAV.
const audioExt = ".wav"

// Discover lists the audio files of a corpus rooted at root, following the
// layout each corpus is distributed with:
//
//	TESS     root/<SPEAKER>_<emotion>/*.wav (any case, hidden files skipped)
//	SAVEE    root/*.wav
//	RAVDESS  root/Actor_*/*.wav
//	CREMAD   root/*.wav
//
// Results are sorted so repeated runs visit files in a stable order.
func Discover(kind Kind, root string) ([]string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("discover: empty dataset root")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", kind, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discover %s: %s is not a directory", kind, root)
	}

	var dirs []string
	switch kind {
	case TESS:
		dirs, err = globDirs(filepath.Join(root, "*_*"))
	case RAVDESS:
		dirs, err = globDirs(filepath.Join(root, "Actor_*"))
	case SAVEE, CREMAD:
		dirs = []string{root}
	default:
		return nil, fmt.Errorf("discover: unsupported dataset %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", kind, err)
	}

	var files []string
	for _, dir := range dirs {
		matches, err := fileutil.ListByExt(dir, audioExt)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", kind, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return files, nil
}

func globDirs(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	dirs := matches[:0]
	for _, match := range matches {
		if fi, err := os.Stat(match); err == nil && fi.IsDir() {
			dirs = append(dirs, match)
		}
	}
	return dirs, nil
}
