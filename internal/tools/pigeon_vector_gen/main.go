// Command pigeon_vector_gen maintains the conformance vectors under
// testdata/conformance/pigeon.
//
// For every invalid/*.msg it writes the matching .want file ("RULE LINE");
// for every valid/*.msg it prints the CID. With -check it writes nothing
// and fails when a .want file is stale or a valid vector stops parsing.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/pigeon"
)

func main() {
	root := flag.String("root", filepath.Join("testdata", "conformance", "pigeon"), "Vector root directory")
	check := flag.Bool("check", false, "Verify .want files instead of writing them")
	flag.Parse()

	if err := generate(*root, *check, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(root string, check bool, out io.Writer) error {
	valid, err := filepath.Glob(filepath.Join(root, "valid", "*.msg"))
	if err != nil {
		return err
	}
	for _, path := range valid {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m, err := pigeon.Parse(b)
		if err != nil {
			return fmt.Errorf("%s: valid vector rejected: %w", filepath.Base(path), err)
		}
		cid, err := m.CID()
		m.Release()
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		fmt.Fprintf(out, "valid\t%s\t%s\n", filepath.Base(path), cid)
	}

	invalid, err := filepath.Glob(filepath.Join(root, "invalid", "*.msg"))
	if err != nil {
		return err
	}
	var stale []string
	for _, path := range invalid {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m, perr := pigeon.Parse(b)
		if perr == nil {
			m.Release()
			return fmt.Errorf("%s: invalid vector accepted", filepath.Base(path))
		}
		want := []byte(fmt.Sprintf("%s %d\n", pigeon.RuleID(perr), pigeon.LineOf(perr)))
		wantPath := strings.TrimSuffix(path, ".msg") + ".want"
		fmt.Fprintf(out, "invalid\t%s\t%s", filepath.Base(path), want)

		if check {
			have, err := os.ReadFile(wantPath)
			if err != nil || !bytes.Equal(bytes.TrimSpace(have), bytes.TrimSpace(want)) {
				stale = append(stale, filepath.Base(wantPath))
			}
			continue
		}
		if err := os.WriteFile(wantPath, want, 0o644); err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("stale expectations: %s", strings.Join(stale, ", "))
	}
	return nil
}
