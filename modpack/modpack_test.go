package modpack

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeTestArchive(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Dungeon Depths", "Dungeon_Depths"},
		{"mod-1.2_final", "mod-1.2_final"},
		{"weird/..\\name", "weird_.._name"},
	}
	for _, tt := range tests {
		if got := SafeName(tt.in); got != tt.want {
			t.Errorf("SafeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	writeTestArchive(t, filepath.Join(dir, "depths.jar"), map[string]string{
		"manifest.json": `{"Name": "Dungeon Depths"}`,
		"assets/x.lang": "k=v",
	})
	writeTestArchive(t, filepath.Join(dir, "plain.zip"), map[string]string{
		"data.json": `{}`,
	})
	writeTestArchive(t, filepath.Join(dir, "_disabled.jar"), nil)
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, ExtractedDirName), 0o755); err != nil {
		t.Fatal(err)
	}

	mods, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(mods) != 2 {
		t.Fatalf("expected 2 mods, got %+v", mods)
	}

	byName := map[string]Mod{}
	for _, m := range mods {
		byName[m.Name] = m
	}
	if m, ok := byName["Dungeon Depths"]; !ok || m.Type != "jar" {
		t.Errorf("manifest name not used: %+v", mods)
	}
	if m, ok := byName["plain"]; !ok || m.Type != "zip" {
		t.Errorf("file stem fallback missing: %+v", mods)
	}
}

func TestScanMissingDir(t *testing.T) {
	mods, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Scan of missing dir should not fail: %v", err)
	}
	if len(mods) != 0 {
		t.Errorf("got %+v", mods)
	}
}

func TestExtractAndCollect(t *testing.T) {
	modsDir := t.TempDir()
	archive := filepath.Join(modsDir, "depths.jar")
	writeTestArchive(t, archive, map[string]string{
		"manifest.json":          `{"Name": "Depths"}`,
		"assets/lang/en-US.lang": "item.sword.name=Iron Sword",
	})

	dest, err := Extract(archive, modsDir, "Dungeon Depths")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if dest != filepath.Join(modsDir, ExtractedDirName, "Dungeon_Depths") {
		t.Errorf("unexpected extraction dir %q", dest)
	}

	data, err := os.ReadFile(filepath.Join(dest, "assets", "lang", "en-US.lang"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "item.sword.name=Iron Sword" {
		t.Errorf("content = %q", data)
	}

	files, err := CollectFiles(dest)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("files = %v", files)
	}

	extracted, err := ListExtracted(modsDir)
	if err != nil {
		t.Fatalf("ListExtracted failed: %v", err)
	}
	if len(extracted) != 1 || extracted[0].Name != "Dungeon_Depths" {
		t.Errorf("extracted = %+v", extracted)
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	modsDir := t.TempDir()
	archive := filepath.Join(modsDir, "evil.zip")
	writeTestArchive(t, archive, map[string]string{
		"../outside.txt": "nope",
	})

	if _, err := Extract(archive, modsDir, "evil"); err == nil {
		t.Fatal("expected error for path traversal entry")
	}
	if _, err := os.Stat(filepath.Join(modsDir, "outside.txt")); !os.IsNotExist(err) {
		t.Error("escaping entry was written")
	}
}

func TestPackRoundTrip(t *testing.T) {
	modsDir := t.TempDir()
	src := filepath.Join(modsDir, ExtractedDirName, "m")
	if err := os.MkdirAll(filepath.Join(src, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "assets", "a.lang"), []byte("k=v"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(modsDir, "m.jar")
	if err := Pack(src, out, true); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	r, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("open packed archive: %v", err)
	}
	defer r.Close()
	if len(r.File) != 1 || r.File[0].Name != "assets/a.lang" {
		t.Errorf("archive entries: %+v", r.File)
	}

	// Packing again backs up the previous archive.
	if err := Pack(src, out, true); err != nil {
		t.Fatalf("second Pack failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(modsDir, "backups", "m.jar.bak")); err != nil {
		t.Errorf("backup missing: %v", err)
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
