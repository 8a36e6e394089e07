package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/salmonumbrella/icdtree/internal/codelist"
)

// openInputSource opens source, or hands back stdin when source is "-".
// The returned close func is always safe to call.
func openInputSource(source string, stdin io.Reader) (io.Reader, func(), error) {
	trimmed := strings.TrimSpace(source)
	switch trimmed {
	case "":
		return nil, func() {}, fmt.Errorf("empty input source")
	case "-":
		if stdin == nil {
			stdin = os.Stdin
		}
		return stdin, func() {}, nil
	}

	file, err := os.Open(trimmed)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to read %s: %w", trimmed, err)
	}
	return file, func() { _ = file.Close() }, nil
}

// readInputSource reads a whole file, or stdin for "-", with surrounding
// whitespace removed.
func readInputSource(source string, stdin io.Reader) (string, error) {
	r, closeInput, err := openInputSource(source, stdin)
	if err != nil {
		return "", err
	}
	defer closeInput()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// stdinPiped reports whether r can carry piped input: any reader that is not
// a file, or a file that is not a terminal.
func stdinPiped(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	file, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// pipedCodes parses a code list from piped stdin. ok is false when stdin is
// a terminal or yields no codes, as with a closed pipe under cron or CI.
func pipedCodes(stdin io.Reader) (list *codelist.List, ok bool, err error) {
	if !stdinPiped(stdin) {
		return nil, false, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	list, err = codelist.Parse(stdin)
	if err != nil {
		return nil, false, err
	}
	return list, len(list.Codes) > 0, nil
}
