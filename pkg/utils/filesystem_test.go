package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spectral/spectral/pkg/utils"
)

func TestFileSystemUtils_Exists(t *testing.T) {
	fs := utils.NewFileSystemUtils()
	dir := t.TempDir()

	path := filepath.Join(dir, "present.log")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !fs.Exists(path) {
		t.Error("expected existing file to be reported")
	}
	if fs.Exists(filepath.Join(dir, "absent.log")) {
		t.Error("expected missing file to be reported absent")
	}
}

func TestFileSystemUtils_WriteCreatesParents(t *testing.T) {
	fs := utils.NewFileSystemUtils()
	dir := t.TempDir()

	path := filepath.Join(dir, "nested", "deep", "report.md")
	if err := fs.WriteFile(path, []byte("content")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestFileSystemUtils_ReadAndRemove(t *testing.T) {
	fs := utils.NewFileSystemUtils()
	dir := t.TempDir()

	path := filepath.Join(dir, "driver.log")
	if err := os.WriteFile(path, []byte("log body"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := fs.ReadAndRemove(path)
	if err != nil {
		t.Fatalf("read-and-remove failed: %v", err)
	}
	if string(data) != "log body" {
		t.Errorf("unexpected content: %s", data)
	}
	if fs.Exists(path) {
		t.Error("source file must be deleted")
	}

	if _, err := fs.ReadAndRemove(path); err == nil {
		t.Error("expected error reading a consumed file")
	}
}
