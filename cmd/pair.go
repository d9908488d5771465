package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/lookbook"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
	"github.com/kozaktomas/outfit-matcher/internal/palette"
	"github.com/kozaktomas/outfit-matcher/internal/picture"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Suggest outfits from images on disk",
	Long: `Run the whole pipeline offline: classify the face image, classify every image
in the tops and bottoms directories, and print the suggested pairings with
their palettes.

Examples:
  outfit-matcher pair --face me.jpg --tops ./tops --bottoms ./bottoms
  outfit-matcher pair --face me.jpg --face-shape Square --tops ./tops --bottoms ./bottoms --pdf lookbook.pdf`,
	RunE: runPair,
}

func init() {
	rootCmd.AddCommand(pairCmd)

	pairCmd.Flags().String("face", "", "Face image used for skin tone detection")
	pairCmd.Flags().String("face-shape", string(outfit.DefaultFaceShape), "Face shape (Oval, Square, Diamond, Rectangular)")
	pairCmd.Flags().String("tops", "", "Directory with top images (required)")
	pairCmd.Flags().String("bottoms", "", "Directory with bottom images (required)")
	pairCmd.Flags().String("pdf", "", "Write a PDF lookbook to this file")
	pairCmd.Flags().String("rules", "", "Styling rules YAML file (defaults to the built-in rules)")
	pairCmd.Flags().Int("workers", 0, "Parallel classifications (overrides CLASSIFY_WORKERS)")

	_ = pairCmd.MarkFlagRequired("tops")
	_ = pairCmd.MarkFlagRequired("bottoms")
}

// listImages returns the image files directly inside dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !picture.IsImageFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func runPair(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()

	workers := mustGetInt(cmd, "workers")
	if workers <= 0 {
		workers = cfg.Classify.Workers
	}

	rules, err := loadRules(mustGetString(cmd, "rules"))
	if err != nil {
		return err
	}

	tone := classify.ToneUnknown
	if face := mustGetString(cmd, "face"); face != "" {
		tone = wardrobe.DetectSkinToneFile(face)
	}
	shape := outfit.FaceShape(mustGetString(cmd, "face-shape"))
	if rules.Advice(shape) == "" {
		log.Warn().Str("face_shape", string(shape)).Msg("no advice for this face shape")
	}

	topPaths, err := listImages(mustGetString(cmd, "tops"))
	if err != nil {
		return err
	}
	bottomPaths, err := listImages(mustGetString(cmd, "bottoms"))
	if err != nil {
		return err
	}

	tops := wardrobe.GroupByColor(wardrobe.ClassifyFiles(ctx, topPaths, workers, nil))
	bottoms := wardrobe.GroupByColor(wardrobe.ClassifyFiles(ctx, bottomPaths, workers, nil))

	catalog := palette.LoadCatalog(ctx, palette.Source{
		URL:     cfg.Catalog.URL,
		Path:    cfg.Catalog.Path,
		Timeout: cfg.Catalog.Timeout,
	})
	generator := outfit.NewGenerator(palette.NewMatcher(catalog), rules)
	pairings := generator.Generate(tone, shape, tops, bottoms)

	fmt.Printf("Skin tone: %s, face shape: %s\n", tone, shape)
	fmt.Printf("Tops: %d, bottoms: %d, pairings: %d\n\n", tops.Count(), bottoms.Count(), len(pairings))
	for i, p := range pairings {
		fmt.Printf("%3d. %s + %s\n", i+1, filepath.Base(p.TopImage), filepath.Base(p.BottomImage))
		fmt.Printf("     %s\n", p.Reason)
		fmt.Printf("     %s\n", strings.Join(p.PaletteColors, " "))
	}

	if out := mustGetString(cmd, "pdf"); out != "" {
		data, err := lookbook.Render(lookbook.Document{
			SkinTone:  tone,
			FaceShape: shape,
			Pairings:  pairings,
		})
		if err != nil {
			return fmt.Errorf("rendering lookbook: %w", err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("\nLookbook written to %s\n", out)
	}
	return nil
}
