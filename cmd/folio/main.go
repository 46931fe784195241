package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpetrov/folio/internal/config"
	"github.com/mpetrov/folio/internal/store"
	"github.com/mpetrov/folio/internal/ui"
)

func main() {
	serverURL := flag.String("url", "", "Progress sync server URL (e.g., http://myserver:8080)")
	booksDir := flag.String("books-dir", "", "Directory to scan for readable files")
	exportSettings := flag.String("export-settings", "", "Export reading settings to a file ('-' for stdout) and exit")
	importSettings := flag.String("import-settings", "", "Import reading settings from a file and exit")
	debug := flag.Bool("debug", false, "Write debug logs to a file")
	showHelp := flag.Bool("help", false, "Show help message")
	flag.BoolVar(showHelp, "h", false, "Show help (shorthand)")

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	setupLogging(*debug)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		cfg.ServerURL = *serverURL
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save server URL to config: %v\n", err)
		}
	}
	if *booksDir != "" {
		cfg.BooksDir = *booksDir
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save books dir to config: %v\n", err)
		}
	}

	if *exportSettings != "" {
		if err := handleExport(cfg, *exportSettings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	if *importSettings != "" {
		if err := handleImport(cfg, *importSettings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Settings imported.")
		os.Exit(0)
	}

	var openFile string
	if flag.NArg() > 0 {
		openFile = flag.Arg(0)
		if _, err := os.Stat(openFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open %s: %v\n", openFile, err)
			os.Exit(1)
		}
	}

	st, err := store.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress store: %v\n", err)
		os.Exit(1)
	}

	app := ui.NewApp(cfg, st, openFile)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes the standard logger to a file in debug mode and
// discards it otherwise, keeping the TUI output clean.
func setupLogging(debug bool) {
	if !debug {
		log.SetOutput(io.Discard)
		return
	}
	path := filepath.Join(os.TempDir(), "folio-debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open debug log: %v\n", err)
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
	log.Printf("folio starting, pid %d", os.Getpid())
}

func handleExport(cfg *config.Config, target string) error {
	data, err := cfg.Settings.Export()
	if err != nil {
		return err
	}
	if target == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(target, data, 0644)
}

func handleImport(cfg *config.Config, source string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	settings, err := config.ImportSettings(data)
	if err != nil {
		return err
	}
	cfg.Settings = settings
	return cfg.Save()
}

func printUsage() {
	fmt.Println("folio - terminal book reader with reflow-safe positions")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  folio                          Start in the library")
	fmt.Println("  folio <file>                   Open a file directly")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --url <url>                Set progress sync server URL (saved to config)")
	fmt.Println("  --books-dir <dir>          Set the library directory (saved to config)")
	fmt.Println("  --export-settings <file>   Export reading settings as JSON ('-' for stdout)")
	fmt.Println("  --import-settings <file>   Import reading settings from JSON")
	fmt.Println("  --debug                    Write debug logs to a file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Supported formats: .html .htm .xhtml .md .markdown .txt")
	fmt.Println()
	fmt.Println("Config: ~/.config/folio/config.json")
}
