package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"argus/catalog"
)

func newCatalogCmd() *cobra.Command {
	var (
		overlayPath string
		outputJSON  bool
	)

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the effective reference catalog",
		Long: `Load the built-in reference catalog, apply the overlay file if one is
configured, and print the effective entry counts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(overlayPath)
			if err != nil {
				return err
			}
			counts := cat.Counts()

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(counts)
			}

			headerColor.Println("Reference catalog")
			for _, key := range []string{
				"sensitive_tables", "common_tables", "sensitive_tcodes", "common_tcodes",
				"common_fields", "field_rules", "excluded_fields", "event_codes",
				"debug_message_codes", "inventory_tables", "inventory_fields",
			} {
				fmt.Printf("  %-22s %d\n", key+":", counts[key])
			}
			if overlayPath != "" {
				infoColor.Printf("  overlay: %s\n", overlayPath)
			}
			return nil
		},
	}

	catalogCmd.Flags().StringVar(&overlayPath, "overlay", "", "Catalog overlay file")
	catalogCmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	return catalogCmd
}
