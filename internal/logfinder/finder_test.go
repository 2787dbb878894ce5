package logfinder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLog(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("[8:33:05 PM] Mission BEGIN\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mod := time.Now().Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
	return path
}

func evalDir(t *testing.T, dir string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

func TestLatestInDir(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "eventlog_old.lst", 3*time.Hour)
	writeLog(t, dir, "eventlog.lst", time.Hour)
	writeLog(t, dir, "notes.txt", 0)

	got, err := LatestInDir(dir)
	if err != nil {
		t.Fatalf("LatestInDir() error = %v", err)
	}
	if filepath.Base(got) != "eventlog.lst" {
		t.Errorf("LatestInDir() = %v, want eventlog.lst", filepath.Base(got))
	}
}

func TestLatestInDir_NoFiles(t *testing.T) {
	_, err := LatestInDir(t.TempDir())
	if !errors.Is(err, ErrLogNotFound) {
		t.Errorf("LatestInDir() error = %v, want %v", err, ErrLogNotFound)
	}
}

func TestFind_ExplicitFile(t *testing.T) {
	dir := evalDir(t, t.TempDir())
	path := writeLog(t, dir, "server.lst", 0)
	t.Setenv(EnvLogFile, "/some/other/path")

	got, err := Find(path)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != path {
		t.Errorf("Find() = %v, want %v", got, path)
	}
}

func TestFind_ExplicitDir(t *testing.T) {
	dir := evalDir(t, t.TempDir())
	want := writeLog(t, dir, "eventlog.lst", 0)

	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != want {
		t.Errorf("Find() = %v, want %v", got, want)
	}
}

func TestFind_ExplicitInvalid(t *testing.T) {
	_, err := Find("/nonexistent/eventlog.lst")
	if !errors.Is(err, ErrLogNotFound) {
		t.Errorf("Find() error = %v, want %v", err, ErrLogNotFound)
	}
}

func TestFind_EnvVar(t *testing.T) {
	dir := evalDir(t, t.TempDir())
	want := writeLog(t, dir, "eventlog.lst", 0)
	t.Setenv(EnvLogFile, dir)

	got, err := Find("")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != want {
		t.Errorf("Find() = %v, want %v", got, want)
	}
}

func TestFind_EnvVarInvalid(t *testing.T) {
	t.Setenv(EnvLogFile, "/nonexistent/path")

	_, err := Find("")
	if !errors.Is(err, ErrLogNotFound) {
		t.Errorf("Find() error = %v, want %v", err, ErrLogNotFound)
	}
}

func TestFind_Default(t *testing.T) {
	dir := evalDir(t, t.TempDir())
	writeLog(t, dir, DefaultFileName, 0)
	t.Setenv(EnvLogFile, "")
	t.Chdir(dir)

	got, err := Find("")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != DefaultFileName {
		t.Errorf("Find() = %v, want %v", got, DefaultFileName)
	}
}
