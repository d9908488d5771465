package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/palette"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with the palette catalog",
}

var catalogFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the palette dataset for offline use",
	Long: `Download the palette dataset from CATALOG_URL and save it to a file.
Point CATALOG_PATH at the file to start without network access.`,
	RunE: runCatalogFetch,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the palettes in the catalog",
	RunE:  runCatalogList,
}

var catalogColorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "List the named garment colours and their reference values",
	Run: func(cmd *cobra.Command, args []string) {
		writeNamedColors(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogFetchCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogColorsCmd)

	catalogFetchCmd.Flags().String("out", "colors.json", "Where to write the dataset")
	catalogListCmd.Flags().Int("id", 0, "Only show the palette with this number")
}

func runCatalogFetch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	data, err := palette.Fetch(context.Background(), cfg.Catalog.URL, cfg.Catalog.Timeout)
	if err != nil {
		return fmt.Errorf("fetching palette dataset: %w", err)
	}

	// Refuse to save something that would load as an empty catalog.
	records, err := palette.Parse(data)
	if err != nil {
		return err
	}

	out := mustGetString(cmd, "out")
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Saved %d colours in %d palettes to %s\n", len(records), palette.NewCatalog(records).Len(), out)
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	catalog := palette.LoadCatalog(context.Background(), palette.Source{
		URL:     cfg.Catalog.URL,
		Path:    cfg.Catalog.Path,
		Timeout: cfg.Catalog.Timeout,
	})
	if catalog.Empty() {
		return fmt.Errorf("palette catalog is unavailable")
	}

	if id := mustGetInt(cmd, "id"); id > 0 {
		p, ok := catalog.Lookup(id)
		if !ok {
			return fmt.Errorf("palette #%d not found", id)
		}
		printPalette(p)
		return nil
	}

	for _, p := range catalog.All() {
		printPalette(p)
	}
	return nil
}

// writeNamedColors prints the garment colour table in classification order.
func writeNamedColors(w io.Writer) {
	for _, nc := range classify.NamedColors() {
		ref := nc.Reference
		fmt.Fprintf(w, "%-8s %s  rgb(%d, %d, %d)\n", nc.Name, ref.Hex(), ref.R, ref.G, ref.B)
	}
}

func printPalette(p palette.Palette) {
	names := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		names = append(names, fmt.Sprintf("%s %s", e.Hex, e.Name))
	}
	fmt.Printf("#%-3d %s\n", p.ID, strings.Join(names, ", "))
}
