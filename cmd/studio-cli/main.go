package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio/internal/history"
	"github.com/fpang/product-studio/internal/localkv"
	"github.com/fpang/product-studio/internal/logging"
	"github.com/fpang/product-studio/internal/mediastore"
)

// Persistent flags
var dataDirFlag string

var rootCmd = &cobra.Command{
	Use:   "studio-cli",
	Short: "Product marketing image and video generation from the terminal",
	Long: `Product Studio CLI analyzes product photos and generates styled
marketing images and short videos with Gemini. Results land in the same
on-disk history the web UI reads.

Examples:
  studio-cli analyze -i chair.jpg
  studio-cli edit -i chair.jpg --category FURNITURE --context f3
  studio-cli generate --category GAME --context g1 -i box.png --size 2K
  studio-cli video -i chair.jpg --category FURNITURE --context f1 --quality pro
  studio-cli history list
  studio-cli history export -o backup.zip`,
	PersistentPreRun: initLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory for history and media databases (default ~/.product-studio/data)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dataDir resolves the on-disk data directory for both stores.
func dataDir() string {
	if dataDirFlag != "" {
		return dataDirFlag
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve home directory")
	}
	return filepath.Join(home, ".product-studio", "data")
}

// openStores opens the history and media stores. The caller closes the
// media store.
func openStores() (*history.Store, mediastore.Store) {
	dir := dataDir()
	kv, err := localkv.Open(filepath.Join(dir, "kv"), localkv.DefaultQuota)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to open history store")
	}
	media, err := mediastore.Open(filepath.Join(dir, "media.db"))
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to open media store")
	}
	return history.NewStore(kv, media), media
}

// initLogging runs before every subcommand.
func initLogging(cmd *cobra.Command, args []string) {
	logging.Init()
}
