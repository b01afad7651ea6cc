package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio/internal/cli"
	"github.com/fpang/product-studio/internal/studio"
)

var (
	exportOutFlag string
	forceFlag     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage generation history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history entries, newest first",
	Run:   runHistoryList,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete one history entry and its stored payload",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries and payloads",
	Run:   runHistoryClear,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history metadata and payloads as a ZIP archive",
	Run:   runHistoryExport,
}

func init() {
	historyClearCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Skip the confirmation prompt")
	historyExportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "Archive path (default product-studio-export-<date>.zip)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	hist, media := openStores()
	defer media.Close()

	entries := hist.GetHistory()
	if len(entries) == 0 {
		fmt.Println("History is empty.")
		return
	}

	fmt.Printf("%-36s  %-8s  %-9s  %-6s  %-19s  %s\n", "ID", "MODE", "CATEGORY", "ASPECT", "CREATED", "CONTEXT")
	for _, e := range entries {
		created := time.UnixMilli(e.CreatedAt).Format("2006-01-02 15:04:05")
		label := e.ContextLabel
		if len(label) > 40 {
			label = label[:40] + "..."
		}
		marker := ""
		if e.MediaMissing {
			marker = " (payload missing)"
		}
		fmt.Printf("%-36s  %-8s  %-9s  %-6s  %-19s  %s%s\n", e.ID, e.Mode, e.Category, e.AspectRatio, created, label, marker)
	}
	fmt.Printf("\n%d entries\n", len(entries))
}

func runHistoryDelete(cmd *cobra.Command, args []string) {
	hist, media := openStores()
	defer media.Close()

	if err := hist.DeleteFromHistory(context.Background(), args[0]); err != nil {
		log.Fatal().Err(err).Str("id", args[0]).Msg("Failed to delete entry")
	}
	fmt.Printf("Deleted %s\n", args[0])
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	hist, media := openStores()
	defer media.Close()

	count := len(hist.GetHistory())
	if count == 0 {
		fmt.Println("History is already empty.")
		return
	}
	if !forceFlag && !cli.Confirm(fmt.Sprintf("Delete all %d history entries and their media", count)) {
		fmt.Println("Aborted.")
		return
	}

	if err := hist.ClearHistory(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to clear history")
	}
	fmt.Printf("Cleared %d entries.\n", count)
}

func runHistoryExport(cmd *cobra.Command, args []string) {
	hist, media := openStores()
	defer media.Close()

	out := exportOutFlag
	if out == "" {
		out = fmt.Sprintf("product-studio-export-%s.zip", time.Now().Format("2006-01-02"))
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("Failed to create archive")
	}
	defer f.Close()

	gen := studio.New(nil, hist, media)
	if err := gen.ExportArchive(context.Background(), f); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	info, err := f.Stat()
	if err == nil {
		fmt.Printf("Exported %d entries to %s (%s)\n", len(hist.GetHistory()), out, cli.FormatByteSize(info.Size()))
	} else {
		fmt.Printf("Exported to %s\n", out)
	}
}
