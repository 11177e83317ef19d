// main_test.go

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const goodSource = `; sum a list
.entry MAIN
.extern PRINT
macr show
prn r1
jsr PRINT
endmacr
MAIN: mov #0, r1
add LIST, r1
show
stop
LIST: .data 4, -1
`

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name+".as")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, name)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestCLI_Assemble(t *testing.T) {
	dir := t.TempDir()
	base := writeSource(t, dir, "prog", goodSource)

	_, stderr, err := execute(t, base+".as")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, stderr)
	}
	for _, ext := range []string{".am", ".ob", ".ent", ".ext"} {
		if !exists(base + ext) {
			t.Errorf("%s not written", base+ext)
		}
	}
	am, _ := os.ReadFile(base + ".am")
	if strings.Contains(string(am), "macr") || !strings.Contains(string(am), "jsr PRINT") {
		t.Errorf(".am not expanded:\n%s", am)
	}
	ext, _ := os.ReadFile(base + ".ext")
	if string(ext) != "PRINT 0109\n" {
		t.Errorf(".ext = %q", ext)
	}
	ent, _ := os.ReadFile(base + ".ent")
	if string(ent) != "MAIN 0100\n" {
		t.Errorf(".ent = %q", ent)
	}
}

func TestCLI_Failure(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good", "stop\n")
	bad := writeSource(t, dir, "bad", "MAIN: foo\nprn #5000\n")
	// A stale object from an earlier run must not survive a failed assembly.
	if err := os.WriteFile(bad+".ob", []byte("0 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := execute(t, "--color=never", bad, good)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "1 of 2 file(s) failed") {
		t.Errorf("err = %v", err)
	}
	for _, want := range []string{
		bad + ".as:1: error: unrecognized instruction or directive: 'foo'",
		bad + ".as:2: error: immediate value out of range",
		bad + ".as: 2 error(s), no object written",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if exists(bad + ".ob") {
		t.Error("object written for a failed file")
	}
	if !exists(bad + ".am") {
		t.Error(".am not written for a file with no macro errors")
	}
	if !exists(good + ".ob") {
		t.Error("later file not assembled after a failure")
	}
}

func TestCLI_MacroErrorRemovesExpanded(t *testing.T) {
	dir := t.TempDir()
	base := writeSource(t, dir, "prog", "macr mov\nendmacr\nstop\n")
	if err := os.WriteFile(base+".am", []byte("stop\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, base); err == nil {
		t.Fatal("expected failure")
	}
	if exists(base + ".am") {
		t.Error("stale .am left after a macro error")
	}
}

func TestCLI_MissingFile(t *testing.T) {
	_, stderr, err := execute(t, filepath.Join(t.TempDir(), "nothing"))
	if err == nil || !strings.Contains(stderr, "reading source") {
		t.Errorf("err = %v, stderr = %q", err, stderr)
	}
}

func TestCLI_OutDirAndNoAM(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	base := writeSource(t, dir, "prog", "stop\n")

	if _, stderr, err := execute(t, "--no-am", "--out-dir", out, base); err != nil {
		t.Fatalf("execute: %v\n%s", err, stderr)
	}
	if !exists(filepath.Join(out, "prog.ob")) {
		t.Error("object not written to --out-dir")
	}
	if exists(filepath.Join(out, "prog.am")) || exists(base+".am") {
		t.Error(".am written despite --no-am")
	}
	if exists(filepath.Join(out, "prog.ent")) || exists(filepath.Join(out, "prog.ext")) {
		t.Error("empty listings written")
	}
}

func TestCLI_ListAndDis(t *testing.T) {
	dir := t.TempDir()
	base := writeSource(t, dir, "prog", goodSource)

	stdout, stderr, err := execute(t, "--list", base)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, stderr)
	}
	for _, want := range []string{"mov #0, r1", "add LIST, r1", "jsr PRINT", ".data -1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("listing missing %q:\n%s", want, stdout)
		}
	}

	stdout, stderr, err = execute(t, "dis", base+".ob")
	if err != nil {
		t.Fatalf("dis: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "0100: ") || !strings.Contains(stdout, "add 0111, r1") {
		t.Errorf("dis output:\n%s", stdout)
	}
}

func TestCLI_Dump(t *testing.T) {
	dir := t.TempDir()
	base := writeSource(t, dir, "prog", goodSource)
	_, stderr, err := execute(t, "--dump", "--color=never", base)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "MAIN") || !strings.Contains(stderr, "Entries") {
		t.Errorf("dump output:\n%s", stderr)
	}
}

func TestCLI_Color(t *testing.T) {
	dir := t.TempDir()
	base := writeSource(t, dir, "bad", "foo\n")

	_, stderr, _ := execute(t, "--color=always", base)
	if !strings.Contains(stderr, ansiRed+"error"+ansiReset) {
		t.Errorf("no colour with --color=always: %q", stderr)
	}
	_, stderr, _ = execute(t, base)
	if strings.Contains(stderr, "\x1b[") {
		t.Errorf("colour written to a non-terminal: %q", stderr)
	}
	if _, _, err := execute(t, "--color=sometimes", base); err == nil || !strings.Contains(err.Error(), "invalid --color") {
		t.Errorf("err = %v", err)
	}
}

func TestCLI_NoArgs(t *testing.T) {
	if _, _, err := execute(t); err == nil {
		t.Error("expected an error without input files")
	}
}
