package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed all:templates
var templateFS embed.FS

// dotfiles are stored without their leading dot so the embed pattern and
// tooling do not treat them as hidden.
var dotfiles = map[string]bool{"gitignore": true}

// scaffoldFile is one file written (or kept) by writeTemplate.
type scaffoldFile struct {
	Path string
	Kept bool
}

// writeTemplate materializes the embedded template name under dir. Existing
// files are kept unless force is set.
func writeTemplate(name, dir string, force bool) ([]scaffoldFile, error) {
	root := path.Join("templates", name)
	var files []scaffoldFile

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == root {
			return err
		}

		rel := scaffoldPath(strings.TrimPrefix(p, root+"/"))
		target := filepath.Join(dir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}

		if _, statErr := os.Stat(target); statErr == nil && !force {
			files = append(files, scaffoldFile{Path: rel, Kept: true})
			return nil
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0600); err != nil {
			return err
		}
		files = append(files, scaffoldFile{Path: rel})
		return nil
	})

	return files, err
}

// scaffoldPath maps an embedded slash path to its on-disk relative path.
func scaffoldPath(rel string) string {
	dir, base := path.Split(rel)
	if dotfiles[base] {
		base = "." + base
	}
	return filepath.FromSlash(dir + base)
}
