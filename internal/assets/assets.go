// Package assets handles the byte payloads a preprocessor ships with the book:
// scripts, stylesheets and anything else chapters may reference.
package assets

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Asset is a named, immutable byte payload.
type Asset struct {
	Name     string
	Contents []byte
}

// Ext returns the lower-cased file extension of the asset name, including the dot.
func (a Asset) Ext() string {
	return strings.ToLower(path.Ext(a.Name))
}

// ValidateName ensures an asset name is a plain file name, so writing it can
// never escape the directory it is written to.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.ValidationError("invalid asset name").WithContext("asset", name).Build()
	}
	return nil
}

// FromFS loads the named files from dir inside fsys, typically an embed.FS.
// Order is preserved, which matters for linked assets.
func FromFS(fsys fs.FS, dir string, names ...string) ([]Asset, error) {
	out := make([]Asset, 0, len(names))
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "read embedded asset").
				WithContext("asset", name).
				Fatal().
				Build()
		}
		out = append(out, Asset{Name: name, Contents: data})
	}
	return out, nil
}

// MustFromFS is FromFS for package-level embedded asset tables.
func MustFromFS(fsys fs.FS, dir string, names ...string) []Asset {
	out, err := FromFS(fsys, dir, names...)
	if err != nil {
		panic(err)
	}
	return out
}

// Materialize writes every asset into root/namespace, creating the directory
// if needed and overwriting files of the same name.
//
// Assets go into the book source rather than the build directory because mdBook
// cleans the build directory after preprocessing.
func Materialize(namespace string, all []Asset, root string) error {
	if err := ValidateName(namespace); err != nil {
		return err
	}
	for _, a := range all {
		if err := ValidateName(a.Name); err != nil {
			return err
		}
	}

	dst := filepath.Join(root, namespace)
	if err := os.MkdirAll(dst, dirPermissions); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create asset directory").
			WithContext("path", dst).
			Fatal().
			Build()
	}

	for _, a := range all {
		target := filepath.Join(dst, a.Name)
		if err := os.WriteFile(target, a.Contents, filePermissions); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "write asset").
				WithContext("path", target).
				Fatal().
				Build()
		}
	}
	return nil
}

// CopyAssets copies every regular file directly inside srcDir into dstDir,
// creating dstDir. A missing srcDir is not an error.
func CopyAssets(srcDir, dstDir string) error {
	if err := os.MkdirAll(dstDir, dirPermissions); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create asset directory").
			WithContext("path", dstDir).
			Fatal().
			Build()
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "read asset source").
			WithContext("path", srcDir).
			Fatal().
			Build()
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(srcDir, entry.Name()))
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "read asset").
				WithContext("path", filepath.Join(srcDir, entry.Name())).
				Fatal().
				Build()
		}
		target := filepath.Join(dstDir, entry.Name())
		if err := os.WriteFile(target, data, filePermissions); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "write asset").
				WithContext("path", target).
				Fatal().
				Build()
		}
	}
	return nil
}
