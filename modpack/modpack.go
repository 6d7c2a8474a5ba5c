// Package modpack handles Hytale mod archives: scanning a mods directory,
// extracting archives for translation, and repacking the results.
package modpack

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExtractedDirName is the directory inside mods/ that holds extracted mods.
const ExtractedDirName = ".extracted"

// Mod describes one mod archive found in the mods directory.
type Mod struct {
	Path     string         // absolute path to the archive
	Name     string         // display name (manifest Name, else file stem)
	Type     string         // "jar" or "zip"
	Manifest map[string]any // decoded manifest.json, nil if absent
}

// Extracted describes one extracted mod directory.
type Extracted struct {
	Path string
	Name string
}

// SafeName sanitizes a mod display name for use as a directory name.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ExtractedRoot returns the extraction directory for a mods directory.
func ExtractedRoot(modsDir string) string {
	return filepath.Join(modsDir, ExtractedDirName)
}

// Scan lists mod archives in modsDir. Entries whose name starts with "." or
// "_" are skipped, which keeps .extracted and _disabled out of the list.
func Scan(modsDir string) ([]Mod, error) {
	entries, err := os.ReadDir(modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read mods dir: %w", err)
	}

	var mods []Mod
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".jar" && ext != ".zip" {
			continue
		}

		archivePath := filepath.Join(modsDir, name)
		mod := Mod{
			Path: archivePath,
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Type: strings.TrimPrefix(ext, "."),
		}
		if manifest := readManifest(archivePath); manifest != nil {
			mod.Manifest = manifest
			if n, ok := manifest["Name"].(string); ok && n != "" {
				mod.Name = n
			} else if n, ok := manifest["name"].(string); ok && n != "" {
				mod.Name = n
			}
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

// readManifest returns the first manifest.json found in the archive, or nil.
// An unreadable archive is treated as having no manifest; Scan still lists
// it under its file name.
func readManifest(archivePath string) map[string]any {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, "manifest.json") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		var manifest map[string]any
		err = json.NewDecoder(rc).Decode(&manifest)
		rc.Close()
		if err != nil {
			return nil
		}
		return manifest
	}
	return nil
}

// Extract unpacks a mod archive into mods/.extracted/<safe-name>/ and
// returns the extraction directory. Archive entries that would escape the
// target directory are rejected.
func Extract(archivePath, modsDir, displayName string) (string, error) {
	if displayName == "" {
		base := filepath.Base(archivePath)
		displayName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	dest := filepath.Join(ExtractedRoot(modsDir), SafeName(displayName))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("make extraction dir: %w", err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractEntry(f, dest); err != nil {
			return "", fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return dest, nil
}

func extractEntry(f *zip.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(f.Name))

	// Zip-slip guard.
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("entry path escapes extraction dir")
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil { // #nosec G110 - local mod archives
		return err
	}
	return nil
}

// ListExtracted lists the extracted mod directories under modsDir.
func ListExtracted(modsDir string) ([]Extracted, error) {
	root := ExtractedRoot(modsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read extracted dir: %w", err)
	}

	var out []Extracted
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, Extracted{
				Path: filepath.Join(root, e.Name()),
				Name: e.Name(),
			})
		}
	}
	return out, nil
}

// CollectFiles returns the relative slash-separated paths of all regular
// files under root, in walk order.
func CollectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// Pack zips an extracted mod directory into outputPath. When backup is true
// and the output already exists, the old archive is copied to a backups/
// directory first. The new archive is written to a temp file and moved into
// place, so a failed pack never corrupts the existing mod.
func Pack(extractedDir, outputPath string, backup bool) error {
	if backup {
		if _, err := os.Stat(outputPath); err == nil {
			backupDir := filepath.Join(filepath.Dir(outputPath), "backups")
			if err := os.MkdirAll(backupDir, 0o755); err != nil {
				return fmt.Errorf("make backup dir: %w", err)
			}
			backupPath := filepath.Join(backupDir, filepath.Base(outputPath)+".bak")
			if err := copyFile(outputPath, backupPath); err != nil {
				return fmt.Errorf("backup existing archive: %w", err)
			}
		}
	}

	tmp := outputPath + ".tmp"
	if err := writeArchive(extractedDir, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

func writeArchive(root, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		in, err := os.Open(p) // #nosec G304 - walking a caller-chosen dir
		if err != nil {
			return err
		}
		_, err = io.Copy(w, in)
		in.Close()
		return err
	})
	if err != nil {
		_ = zw.Close()
		_ = out.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("finish archive: %w", err)
	}
	return out.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - caller-chosen paths
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst) // #nosec G304
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
