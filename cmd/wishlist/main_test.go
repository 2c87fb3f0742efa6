package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "wishlist.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PROMETHEUS_PORT", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	setupEnv(t)

	if _, err := run(t, "migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	out, err := run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "empty") {
		t.Errorf("empty list output = %q", out)
	}

	out, err = run(t, "add", "--title", "Kindle", "--price", "89.5", "--category", "books")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Added #") {
		t.Errorf("add output = %q", out)
	}

	if _, err := run(t, "add", "--title", "Yarn", "--category", "custom",
		"--custom-category", "Knitting", "--custom-image", "https://example.com/yarn.png"); err != nil {
		t.Fatal(err)
	}

	out, err = run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	books := strings.Index(out, "Books")
	knitting := strings.Index(out, "Knitting")
	if books < 0 || knitting < books {
		t.Errorf("list output = %q", out)
	}
	if !strings.Contains(out, "Kindle  $89.50") {
		t.Errorf("list output = %q", out)
	}
}

func TestAddRejectsInvalidItem(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "add", "--price", "ten")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Please enter a title") || !strings.Contains(err.Error(), "valid price") {
		t.Errorf("error = %v", err)
	}
}

func TestOpenDatabaseLogOutput(t *testing.T) {
	setupEnv(t)

	a, err := openDatabase(nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.db.Close() })
	if a.logger.Out != os.Stdout {
		t.Errorf("serve logger output = %v, want os.Stdout", a.logger.Out)
	}

	var buf bytes.Buffer
	b, err := openDatabase(&buf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.db.Close() })
	if b.logger.Out != &buf {
		t.Error("command logger ignores the given writer")
	}
}
