package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"lootdex/core/config"
	"lootdex/core/corpus"
	"lootdex/core/logger"
	"lootdex/core/storage"
	"lootdex/feature/loot"

	"github.com/spf13/cobra"
)

// resolveCmd runs a one-shot loot resolution from the command line.
var resolveCmd = &cobra.Command{
	Use:   "resolve <itemId>",
	Short: "Resolve the loot sources of one item",
	Long: `Cross-references the given item id against every loot source in the
published dump and prints the result as indented JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		itemID := args[0]

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		store := corpus.NewStore(client, cfg.Storage.Bucket, cfg.Corpus, logg)
		svc := loot.NewService(store, logg)

		result, err := svc.Resolve(ctx, itemID)
		if err != nil {
			return fmt.Errorf("resolution failed: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	RootCmd.AddCommand(resolveCmd)
}
