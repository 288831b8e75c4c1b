package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dgclarke/offermail/internal/config"
	"github.com/dgclarke/offermail/internal/ui"
	"github.com/dgclarke/offermail/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var serveAddr string

func main() {
	rootCmd := &cobra.Command{
		Use:   "offermail",
		Short: "Turn offer sheets into email-ready HTML tables",
		Long: `offermail reads a product offer spreadsheet, lets you pick the header
row and columns, and produces an HTML table with inlined styles that
pastes cleanly into an email client.`,
		Version: fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date),
		Args:    cobra.NoArgs,
		RunE:    runTUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the browser UI instead of the terminal one",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides OFFERMAIL_ADDR)")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	p := tea.NewProgram(ui.InitialModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if serveAddr != "" {
		cfg.ServeAddr = serveAddr
	}

	log.Printf("offermail serving on http://%s", cfg.ServeAddr)
	return web.NewServer(cfg).Run()
}
