package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ripopov/surfer-sub000/internal/diff"
	"github.com/ripopov/surfer-sub000/internal/storage"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output (also list fold changes)")
	summary := flag.Bool("s", false, "Summary only (no item-level details)")
	backupDir := flag.String("backups", "", "Backup directory (default ~/.local/share/surfer-panel/backups)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: layout-diff [options] <layout>
       layout-diff [options] <layout1> <layout2>

Compares item panel layouts and shows the changes by item ref.

Single-file mode: shows the changes between consecutive backups of the file
and from the newest backup to the file itself.
Two-file mode: shows the changes between two layouts.

Options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	opts := options{verbose: *verbose, summary: *summary}
	var err error
	switch len(args) {
	case 1:
		err = historyDiff(os.Stdout, args[0], *backupDir, opts)
	case 2:
		err = twoFileDiff(os.Stdout, args[0], args[1], opts)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	verbose bool
	summary bool
}

func loadLayout(path string) (*storage.Layout, error) {
	store := storage.NewStore(path)
	if !store.FileExists() {
		return nil, fmt.Errorf("%s does not exist", path)
	}
	return store.Load()
}

func printDiff(w io.Writer, old, new *storage.Layout, opts options) error {
	result, err := diff.ComputeDiff(old, new)
	if err != nil {
		return err
	}
	if result.Empty() {
		fmt.Fprintln(w, "No changes")
		return nil
	}
	if opts.summary {
		fmt.Fprintln(w, diff.Summary(result))
		return nil
	}
	fmt.Fprint(w, diff.FormatLines(diff.BuildDiffLines(result, opts.verbose)))
	return nil
}

// twoFileDiff compares two layout files
func twoFileDiff(w io.Writer, path1, path2 string, opts options) error {
	old, err := loadLayout(path1)
	if err != nil {
		return err
	}
	new, err := loadLayout(path2)
	if err != nil {
		return err
	}
	return printDiff(w, old, new, opts)
}

// historyDiff walks the backups of path, oldest first, and finally compares
// the newest backup with the file itself
func historyDiff(w io.Writer, path, backupDir string, opts options) error {
	current, err := loadLayout(path)
	if err != nil {
		return err
	}
	bm, err := storage.NewBackupManager(backupDir)
	if err != nil {
		return err
	}
	backups, err := bm.FindBackupsForFile(path)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintf(w, "No backups of %s\n", path)
		return nil
	}

	var prev *storage.Layout
	for _, b := range backups {
		layout, err := bm.LoadBackup(b.FilePath)
		if err != nil {
			fmt.Fprintf(w, "Skipping %s: %v\n", b.FilePath, err)
			continue
		}
		if prev != nil {
			fmt.Fprintf(w, "=== %s (%s) ===\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.SessionID)
			if err := printDiff(w, prev, layout, opts); err != nil {
				return err
			}
		}
		prev = layout
	}
	if prev == nil {
		return nil
	}
	fmt.Fprintln(w, "=== current ===")
	return printDiff(w, prev, current, opts)
}
