package glyphmatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// CorpusNotFoundError is returned when a corpus directory cannot be read or
// holds no visible images.
type CorpusNotFoundError struct {
	Dir string
	Err error
}

func (e *CorpusNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corpus %s not found: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("corpus %s has no visible images", e.Dir)
}

func (e *CorpusNotFoundError) Unwrap() error { return e.Err }

// Entry is one image of a corpus. Path is absolute and is the entry's
// identity. Label is meaningful only when Hidden is false.
type Entry struct {
	Path   string
	Name   string
	Hidden bool
	Label  Label
}

// NewEntry builds the entry for a single image file, deriving its label
// from the file name.
func NewEntry(path string) (Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Path: abs, Name: filepath.Base(abs)}
	if e.Hidden, err = isHidden(abs); err != nil {
		return Entry{}, err
	}
	if e.Hidden {
		return e, nil
	}
	if e.Label, err = LabelFromFilename(e.Name); err != nil {
		return e, err
	}
	return e, nil
}

// ListOptions controls ListCorpus.
type ListOptions struct {
	// SkipInvalid drops visible files with an unrecognised leading
	// character, logging a warning, instead of failing.
	SkipInvalid bool
	Logger      *zap.Logger
}

// ListCorpus returns every regular file in dir, sorted by name. Hidden
// files are included with Hidden set so callers can exclude them; visible
// files must carry a valid label.
func ListCorpus(dir string, opts ListOptions) ([]Entry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &CorpusNotFoundError{Dir: dir, Err: err}
	}

	var (
		entries []Entry
		visible int
	)
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		e, err := NewEntry(filepath.Join(dir, de.Name()))
		var invalid *InvalidLabelError
		switch {
		case errors.As(err, &invalid) && opts.SkipInvalid:
			logger.Warn("Skipping file with invalid label",
				zap.String("file", de.Name()),
				zap.String("char", string(invalid.Char)))
			continue
		case err != nil:
			return nil, err
		}
		if !e.Hidden {
			visible++
		}
		entries = append(entries, e)
	}

	if visible == 0 {
		return nil, &CorpusNotFoundError{Dir: dir}
	}
	logger.Debug("Listed corpus",
		zap.String("dir", dir),
		zap.Int("files", len(entries)),
		zap.Int("visible", visible))
	return entries, nil
}

// Visible returns the entries that are not hidden, preserving order.
func Visible(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}
