package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ripopov/surfer-sub000/internal/storage"
)

func main() {
	to := flag.String("to", "", "Output format when writing to stdout (json, toml, yaml)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: layout-convert [options] <input> [output]

Converts an item panel layout between JSON, TOML and YAML. Formats are
picked from the file extensions. The layout is validated before writing.

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  layout-convert signals.json signals.yaml
  layout-convert -to toml signals.json
`)
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || (len(args) < 2 && *to == "") {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	if len(args) > 1 {
		err = convert(args[0], args[1])
	} else {
		err = convertTo(args[0], storage.Format(*to), os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(inputPath string) (*storage.Layout, error) {
	store := storage.NewStore(inputPath)
	if !store.FileExists() {
		return nil, fmt.Errorf("%s does not exist", inputPath)
	}
	return store.Load()
}

// convert rewrites the layout at inputPath to outputPath
func convert(inputPath, outputPath string) error {
	layout, err := load(inputPath)
	if err != nil {
		return err
	}
	return storage.NewStore(outputPath).Save(layout)
}

// convertTo writes the layout at inputPath to w in the given format
func convertTo(inputPath string, format storage.Format, w io.Writer) error {
	layout, err := load(inputPath)
	if err != nil {
		return err
	}
	data, err := storage.Encode(layout, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
