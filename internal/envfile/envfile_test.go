package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NonexistentFile(t *testing.T) {
	err := Load("/nonexistent/.env")
	if err != nil {
		t.Fatalf("expected nil for nonexistent file, got %v", err)
	}
}

func TestLoad_SetsUnsetVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.local")
	content := "TEST_ENVFILE_A=hello\nTEST_ENVFILE_B=world\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// Ensure vars are unset
	t.Setenv("TEST_ENVFILE_A", "")
	t.Setenv("TEST_ENVFILE_B", "")
	_ = os.Unsetenv("TEST_ENVFILE_A") //nolint:errcheck
	_ = os.Unsetenv("TEST_ENVFILE_B") //nolint:errcheck

	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("TEST_ENVFILE_A"); got != "hello" {
		t.Errorf("TEST_ENVFILE_A = %q, want %q", got, "hello")
	}
	if got := os.Getenv("TEST_ENVFILE_B"); got != "world" {
		t.Errorf("TEST_ENVFILE_B = %q, want %q", got, "world")
	}
}

func TestLoad_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "TEST_ENVFILE_C=from_file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEST_ENVFILE_C", "from_env")

	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("TEST_ENVFILE_C"); got != "from_env" {
		t.Errorf("TEST_ENVFILE_C = %q, want %q (env should take precedence)", got, "from_env")
	}
}

func TestLoad_SkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# This is a comment\n\nTEST_ENVFILE_D=yes\n  # indented comment\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEST_ENVFILE_D", "")
	_ = os.Unsetenv("TEST_ENVFILE_D") //nolint:errcheck

	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("TEST_ENVFILE_D"); got != "yes" {
		t.Errorf("TEST_ENVFILE_D = %q, want %q", got, "yes")
	}
}

func TestLoad_Syntax(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "export TEST_ENVFILE_E=exported\n" +
		"TEST_ENVFILE_F=\"quoted value\"\n" +
		"TEST_ENVFILE_G='single quoted'\n" +
		"TEST_ENVFILE_H=plain # trailing comment\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"TEST_ENVFILE_E": "exported",
		"TEST_ENVFILE_F": "quoted value",
		"TEST_ENVFILE_G": "single quoted",
		"TEST_ENVFILE_H": "plain",
	}
	for key := range want {
		t.Setenv(key, "")
		_ = os.Unsetenv(key) //nolint:errcheck
	}

	if err := Load(path); err != nil {
		t.Fatal(err)
	}

	for key, w := range want {
		if got := os.Getenv(key); got != w {
			t.Errorf("%s = %q, want %q", key, got, w)
		}
	}
}

func TestLoadAll_FirstFileWins(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	if err := os.WriteFile(local, []byte("TEST_ENVFILE_I=local\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(shared, []byte("TEST_ENVFILE_I=shared\nTEST_ENVFILE_J=shared\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEST_ENVFILE_I", "")
	t.Setenv("TEST_ENVFILE_J", "")
	_ = os.Unsetenv("TEST_ENVFILE_I") //nolint:errcheck
	_ = os.Unsetenv("TEST_ENVFILE_J") //nolint:errcheck

	if err := LoadAll(local, "", shared, filepath.Join(dir, "missing")); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("TEST_ENVFILE_I"); got != "local" {
		t.Errorf("TEST_ENVFILE_I = %q, want %q", got, "local")
	}
	if got := os.Getenv("TEST_ENVFILE_J"); got != "shared" {
		t.Errorf("TEST_ENVFILE_J = %q, want %q", got, "shared")
	}
}

func TestDefaultPaths(t *testing.T) {
	got := DefaultPaths("/cfg")
	want := []string{".env.local", ".env", filepath.Join("/cfg", "env")}
	if len(got) != len(want) {
		t.Fatalf("DefaultPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DefaultPaths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := DefaultPaths(""); len(got) != 2 {
		t.Errorf("DefaultPaths(\"\") = %v, want two entries", got)
	}
}
