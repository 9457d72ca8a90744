package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ripopov/surfer-sub000/internal/app"
	"github.com/ripopov/surfer-sub000/internal/config"
	"github.com/ripopov/surfer-sub000/internal/export"
	"github.com/ripopov/surfer-sub000/internal/socket"
	"github.com/ripopov/surfer-sub000/internal/storage"
	"github.com/ripopov/surfer-sub000/internal/theme"
	"github.com/ripopov/surfer-sub000/internal/ui"
)

const defaultLayout = "layout.json"

func main() {
	debug := flag.Bool("debug", false, "Enable debug mode (shows key events in status)")
	importPath := flag.String("import", "", "Append the items of a Markdown or indented text file before starting")
	exportPath := flag.String("export", "", "Write the layout as a Markdown list and exit")
	themeName := flag.String("theme", "", "Theme name (overrides the config file)")
	logPath := flag.String("log", "surfer-panel.log", "Log file")
	control := flag.Bool("control", false, "Accept commands from other processes on a Unix socket")
	addItem := flag.String("add", "", "Add an item (\"[kind] name\") to a running panel started with -control")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: surfer-panel [options] [layout.json|.toml|.yaml]\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *addItem != "" {
		if err := sendAddItem(*addItem); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Item added")
		return
	}

	filePath := defaultLayout
	if args := flag.Args(); len(args) > 0 {
		filePath = args[0]
	}

	if *exportPath != "" {
		if err := exportLayout(filePath, *exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logFile, err := os.Create(*logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *themeName != "" {
		cfg.Theme = *themeName
	}

	screen, err := ui.NewScreenWithTheme(theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var server *socket.Server
	if *control {
		if server, err = socket.NewServer("", os.Getpid()); err != nil {
			screen.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		server.Start()
	}

	application, err := app.NewApp(app.Options{
		FilePath: filePath,
		Config:   cfg,
		Screen:   screen,
		Control:  server,
		Debug:    *debug,
	})
	if err != nil {
		if server != nil {
			server.Stop()
		}
		screen.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *importPath != "" {
		application.ImportFile(*importPath)
	}

	log.Printf("started on %s", filePath)
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

// exportLayout writes the layout at filePath as Markdown without starting
// the terminal UI
func exportLayout(filePath, exportPath string) error {
	store := storage.NewStore(filePath)
	if !store.FileExists() {
		return fmt.Errorf("%s does not exist", filePath)
	}
	layout, err := store.Load()
	if err != nil {
		return err
	}
	reg, t, err := layout.Restore()
	if err != nil {
		return err
	}
	if err := export.ExportToMarkdown(t, reg, exportPath, false); err != nil {
		return err
	}
	fmt.Printf("Exported %d items to %s\n", reg.Len(), filepath.Base(exportPath))
	return nil
}

// sendAddItem sends an item to a running panel
func sendAddItem(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("item text cannot be empty")
	}
	socketPath, _, err := socket.FindRunningInstance("")
	if err != nil {
		return err
	}
	client, err := socket.NewClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	response, err := client.AddItems(text)
	if err != nil {
		return err
	}
	if !response.Success {
		return fmt.Errorf("panel refused item: %s", response.Message)
	}
	return nil
}
