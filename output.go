package milkshake

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

// OutputDirName is the subdirectory generated images are collected in.
const OutputDirName = "milkshake"

// DirLocator yields a candidate base directory for generated images.
// An empty path or an error moves resolution on to the next locator.
type DirLocator struct {
	Name   string
	Locate func() (string, error)
}

// PicturesDirLocator resolves the platform Pictures directory.
func PicturesDirLocator() DirLocator {
	return DirLocator{
		Name: "pictures",
		Locate: func() (string, error) {
			if xdg.UserDirs.Pictures == "" {
				return "", errors.New("pictures directory not configured")
			}
			return xdg.UserDirs.Pictures, nil
		},
	}
}

// WorkingDirLocator resolves the current working directory.
func WorkingDirLocator() DirLocator {
	return DirLocator{
		Name:   "cwd",
		Locate: os.Getwd,
	}
}

// OutputResolver decides where the generated image is written.
type OutputResolver struct {
	// Locators are tried in order when no explicit path is given
	Locators []DirLocator

	// FileName builds the file name for generated paths
	FileName func(format OutputFormat) string
}

// NewOutputResolver returns a resolver that prefers the Pictures directory
// and falls back to the working directory.
func NewOutputResolver() *OutputResolver {
	return &OutputResolver{
		Locators: []DirLocator{PicturesDirLocator(), WorkingDirLocator()},
		FileName: DefaultFileName,
	}
}

// DefaultFileName returns milkshake-{uuid}.{ext}.
func DefaultFileName(format OutputFormat) string {
	return fmt.Sprintf("%s-%s.%s", OutputDirName, uuid.NewString(), format.Extension())
}

// Resolve returns the path the image will be written to, creating any
// directories it needs. An explicit path is returned unchanged.
func (r *OutputResolver) Resolve(explicit string, format OutputFormat) (string, error) {
	if explicit != "" {
		if err := ensureParentExists(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	base, err := r.locate()
	if err != nil {
		return "", err
	}

	targetDir := filepath.Join(base, OutputDirName)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("%w at %s: %w", ErrOutputPath, targetDir, err)
	}

	fileName := r.FileName
	if fileName == nil {
		fileName = DefaultFileName
	}
	return filepath.Join(targetDir, fileName(format)), nil
}

func (r *OutputResolver) locate() (string, error) {
	var errs []error
	for _, loc := range r.Locators {
		dir, err := loc.Locate()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", loc.Name, err))
			continue
		}
		if dir == "" {
			continue
		}
		return dir, nil
	}

	if len(errs) > 0 {
		return "", fmt.Errorf("%w: %w", ErrOutputPath, errors.Join(errs...))
	}
	return "", fmt.Errorf("%w: no candidate directory", ErrOutputPath)
}

func ensureParentExists(path string) error {
	parent := filepath.Dir(path)
	if parent == "" || parent == "." {
		return nil
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("%w at %s: %w", ErrDirectoryCreate, parent, err)
	}
	return nil
}
