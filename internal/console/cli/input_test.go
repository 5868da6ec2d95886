package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(reader, "Say something", &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(out.String(), "Say something") {
		t.Fatalf("prompt missing: %s", out.String())
	}
}

func TestGetSimpleText_PartialLineOnEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(reader, "Say something", &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "no newline" {
		t.Fatalf("got %q", got)
	}
}

func TestGetSimpleTextDefault(t *testing.T) {
	var out bytes.Buffer

	// empty input keeps the default
	reader := bufio.NewReader(strings.NewReader("\n"))
	got, err := GetSimpleTextDefault(reader, "Value", "42", &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "42" {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(out.String(), "[42]") {
		t.Fatalf("default not shown: %s", out.String())
	}

	// explicit input wins
	reader = bufio.NewReader(strings.NewReader("7\n"))
	got, err = GetSimpleTextDefault(reader, "Value", "42", &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != "7" {
		t.Fatalf("got %q", got)
	}
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassword(&out, "Enter password")
	if err != nil {
		t.Fatal(err)
	}
	if string(pw) != "s3cret" {
		t.Fatalf("got %q", pw)
	}
	if !strings.Contains(out.String(), "Enter password: ") {
		t.Fatalf("prompt missing: %s", out.String())
	}
}
