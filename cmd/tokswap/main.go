package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tokswap/tokswap/internal/exporter"
	"github.com/tokswap/tokswap/internal/importer"
	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
	"github.com/tokswap/tokswap/internal/picker"
	"github.com/tokswap/tokswap/internal/scrape"
	"github.com/tokswap/tokswap/internal/search"
	"github.com/tokswap/tokswap/internal/session"
	"github.com/tokswap/tokswap/internal/storage"
	"github.com/tokswap/tokswap/internal/store"
	"github.com/tokswap/tokswap/internal/tui"
)

// defaultPageURL is the page the sync scrape reads. Override with
// TOKSWAP_PAGE_URL.
const defaultPageURL = "https://chatgpt.com/"

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: tokswap import <file.json>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "export":
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		default:
			// Treat as search query (join all remaining args)
			query := strings.Join(os.Args[1:], " ")
			runQuickSwitch(query)
			return
		}
	}

	// No args - run full TUI
	runTUI()
}

func printHelp() {
	help := `tokswap - session token switcher

Usage:
  tokswap               Open interactive TUI
  tokswap <query>       Quick search → select → switch session
  tokswap import <file> Import accounts from JSON
  tokswap export [path] Export accounts (.html for a printable listing)
  tokswap help          Show this help

TUI Keybindings:
  Navigation:
    j/k         Move down/up
    gg/G        Jump to top/bottom
    h/l         Cycle tag filter

  Actions:
    Enter       Switch to account
    y           Copy token to clipboard
    /           Filter by email
    s           Sync active account from page
    L           Logout

  Editing:
    a           Add account
    e           Edit account
    t           Edit tags
    d           Delete account
    m           Reorder mode
    T           Tag manager
    C           Clear all data

  Other:
    ?           Show help overlay
    q           Quit

Data Storage:
  ~/.config/tokswap/tokswap.json (or tokswap.db)
`
	fmt.Print(help)
}

// env is the loaded application wiring shared by every command.
type env struct {
	storage storage.Storage
	session session.Session
	scraper scrape.Scraper
	snap    *storage.Snapshot
}

// loadEnv opens storage, loads the snapshot, and repairs the ordering
// index against the loaded collections, persisting the repair.
func loadEnv(ctx context.Context) (*env, error) {
	sg, err := storage.Open()
	if err != nil {
		return nil, err
	}
	snap, err := storage.LoadSnapshot(ctx, sg)
	if err != nil {
		return nil, err
	}

	orders, changed := order.Normalize(snap.Orders, snap.Accounts, snap.Tags)
	if changed {
		if err := storage.SaveValues(ctx, sg, map[string]any{
			storage.KeyOrders: orders,
		}); err != nil {
			return nil, err
		}
	}
	snap.Orders = orders

	sessPath, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}

	pageURL := os.Getenv("TOKSWAP_PAGE_URL")
	if pageURL == "" {
		pageURL = defaultPageURL
	}

	return &env{
		storage: sg,
		session: session.NewCookieFile(sessPath),
		scraper: &scrape.HTTPScraper{URL: pageURL},
		snap:    snap,
	}, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// runTUI runs the full interactive TUI.
func runTUI() {
	ctx := context.Background()
	e, err := loadEnv(ctx)
	if err != nil {
		fatal("Error loading accounts: %v", err)
	}

	active, err := e.session.Active(ctx)
	if err != nil {
		fatal("Error reading session: %v", err)
	}

	st := store.New(store.State{
		Accounts:    e.snap.Accounts,
		Tags:        e.snap.Tags,
		Orders:      e.snap.Orders,
		FilterTagID: e.snap.FilterTagID,
		ActiveToken: active,
	})

	app := tui.New(ctx, st, e.storage, e.session, e.scraper, e.snap.Theme)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatal("Error running app: %v", err)
	}
}

// runQuickSwitch performs a fuzzy search and switches the session to
// the selected account.
func runQuickSwitch(query string) {
	ctx := context.Background()
	e, err := loadEnv(ctx)
	if err != nil {
		fatal("Error loading accounts: %v", err)
	}

	results := search.FuzzySearchAccounts(e.snap.Accounts, query)
	if len(results) == 0 {
		fmt.Printf("No accounts found for '%s'\n", query)
		os.Exit(0)
	}

	var selected *model.Account
	if len(results) == 1 {
		selected = results[0].Account
		fmt.Printf("Switching to: %s\n", selected.Email)
	} else {
		active, _ := e.session.Active(ctx)
		p := picker.New(results, query, active)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fatal("Error running picker: %v", err)
		}
		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			os.Exit(0)
		}
		selected = finalPicker.SelectedAccount()
	}
	if selected == nil {
		os.Exit(0)
	}

	if err := e.session.SetActive(ctx, selected.Token); err != nil {
		fatal("Error switching session: %v", err)
	}
	fmt.Printf("Now logged in as %s\n", selected.Email)
}

// runImport handles the import subcommand.
func runImport(filePath string) {
	ctx := context.Background()
	e, err := loadEnv(ctx)
	if err != nil {
		fatal("Error loading accounts: %v", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		fatal("Error opening file: %v", err)
	}
	defer file.Close()

	merged, added, err := importer.Merge(e.snap.Accounts, file)
	if err != nil {
		fatal("Error parsing import: %v", err)
	}

	// New accounts enter the ordering index through the same repair
	// path a fresh load uses.
	orders, _ := order.Normalize(e.snap.Orders, merged, e.snap.Tags)

	if err := storage.SaveValues(ctx, e.storage, map[string]any{
		storage.KeyAccounts: merged,
		storage.KeyOrders:   orders,
	}); err != nil {
		fatal("Error saving accounts: %v", err)
	}

	fmt.Printf("Imported %d accounts (%d total)\n", added, len(merged))
}

// runExport handles the export subcommand. A .html path selects the
// printable listing; everything else gets JSON.
func runExport(outputPath string) {
	ctx := context.Background()
	e, err := loadEnv(ctx)
	if err != nil {
		fatal("Error loading accounts: %v", err)
	}

	if outputPath == "" {
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fatal("Error getting default export path: %v", err)
		}
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(outputPath), ".html") {
		data = []byte(exporter.ExportHTML(e.snap.Accounts, e.snap.Tags))
	} else {
		data, err = exporter.ExportJSON(e.snap.Accounts)
		if err != nil {
			fatal("Error encoding accounts: %v", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		fatal("Error creating export directory: %v", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		fatal("Error writing export: %v", err)
	}
	fmt.Printf("Exported %d accounts to %s\n", len(e.snap.Accounts), outputPath)
}
