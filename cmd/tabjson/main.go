// tabjson - NDJSON/JSON to columnar table CLI tool
//
// Usage:
//
//	tabjson schema [options] [file]   Infer and print the column schema
//	tabjson shape [options] [file]    Decode and print rows x columns
//	tabjson to-csv [options] [file]   Decode and emit CSV to stdout
//	tabjson version                   Print version info
//
// Input may be plain, gzip or zstd compressed (detected by magic bytes).
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/tabjson/tabjson/tabjson"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]

	// Parse flags and file argument.
	array := false
	verbose := false
	sample := tabjson.DefaultSampleSize
	batch := tabjson.DefaultBatchSize
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--array":
			array = true
		case arg == "--all-rows":
			sample = 0
		case arg == "-v", arg == "--verbose":
			verbose = true
		case strings.HasPrefix(arg, "--sample="):
			if n, err := parseIntArg(arg, "--sample="); err == nil {
				sample = n
			}
		case strings.HasPrefix(arg, "--batch="):
			if n, err := parseIntArg(arg, "--batch="); err == nil {
				batch = n
			}
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	setupLogging(verbose)

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	newReader := func() *tabjson.Reader {
		r := tabjson.NewReader(input).InferSchemaLen(sample).WithBatchSize(batch)
		if array {
			r = r.WithFormat(tabjson.FormatArray)
		}
		return r
	}

	switch cmd {
	case "schema":
		cmdSchema(newReader())
	case "shape":
		cmdShape(newReader())
	case "to-csv":
		cmdToCSV(newReader())
	case "version", "--version":
		fmt.Printf("tabjson %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `tabjson - decode NDJSON/JSON into a typed columnar table

Usage:
  tabjson schema [options] [file]   Infer and print the column schema
  tabjson shape [options] [file]    Decode and print rows x columns
  tabjson to-csv [options] [file]   Decode and emit CSV to stdout
  tabjson version                   Print version info

Options:
  --array        Input is a single JSON array of objects (default: JSON lines)
  --sample=N     Records sampled for schema inference (default: 100)
  --all-rows     Infer the schema from every record
  --batch=N      Records per decode batch (default: 8192)
  -v, --verbose  Debug logging

Gzip and zstd input are decompressed transparently.
If no file is given, reads from stdin.

Examples:
  tabjson schema events.ndjson
  tabjson to-csv --array response.json > response.csv
  zcat big.ndjson.gz | tabjson shape
`)
}

// cmdSchema: infer and print "name:type" per column.
func cmdSchema(r *tabjson.Reader) {
	schema, err := r.InferSchema()
	if err != nil {
		fatal("infer schema: %v", err)
	}
	for _, f := range schema.Fields() {
		fmt.Printf("%s:%s\n", f.Name, f.Type)
	}
}

// cmdShape: full decode, print shape and conflict count.
func cmdShape(r *tabjson.Reader) {
	t, err := r.Finish()
	if err != nil {
		fatal("decode: %v", err)
	}
	rows, cols := t.Shape()
	fmt.Printf("%d x %d\n", rows, cols)
	if n := r.Conflicts(); n > 0 {
		slog.Warn("cells nulled by type conflicts", "count", n)
	}
}

// cmdToCSV: full decode, emit CSV.
func cmdToCSV(r *tabjson.Reader) {
	t, err := r.Finish()
	if err != nil {
		fatal("decode: %v", err)
	}
	if n := r.Conflicts(); n > 0 {
		slog.Warn("cells nulled by type conflicts", "count", n)
	}
	if err := t.WriteCSV(os.Stdout); err != nil {
		fatal("write csv: %v", err)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
}

func parseIntArg(arg, prefix string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(arg, prefix))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "tabjson: "+format+"\n", args...)
	os.Exit(1)
}
