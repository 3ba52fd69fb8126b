package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/revtui/revtui/internal/diffparse"
	"github.com/revtui/revtui/internal/rows"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: diffdump [options] [diff-file]

Parses a unified diff and dumps the parsed structure, for inspecting
what the viewer will display. Reads stdin when no file is given.

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Dump the working copy diff of a jj repo
  jj diff --git | diffdump

  # Dump a saved patch with the flattened row listing
  diffdump -rows changes.patch
`)
	}

	dumpRows := flag.Bool("rows", false, "Also print the flattened display rows")
	flag.Parse()

	var input []byte
	var err error
	if args := flag.Args(); len(args) > 0 {
		input, err = os.ReadFile(args[0])
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files := diffparse.Parse(string(input))

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Dump(files)

	flat := rows.Flatten(files)
	fmt.Printf("\n%d files, %d rows\n", len(files), len(flat))

	if *dumpRows {
		for _, r := range flat {
			switch r.Kind {
			case rows.FileHeader:
				fmt.Printf("%5d FILE %s\n", r.Index, r.Text)
			case rows.HunkHeader:
				fmt.Printf("%5d HUNK %s %s\n", r.Index, r.HunkID, r.Text)
			default:
				marker := ' '
				switch r.Line {
				case rows.AdditionLine:
					marker = '+'
				case rows.DeletionLine:
					marker = '-'
				}
				fmt.Printf("%5d %4d %4d %c%s\n", r.Index, r.OldLine, r.NewLine, marker, r.Text)
			}
		}
	}
}
