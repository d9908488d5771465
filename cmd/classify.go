package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <image>...",
	Short: "Classify face or garment images",
	Long: `Classify images from disk.

With --kind face every image is labelled with a skin tone (Fair, Medium, Olive,
Dark or Unknown). With --kind clothes every image is labelled with its nearest
named colour, or Uncertain, followed by its prominent swatches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().String("kind", "clothes", "What the images show: face or clothes")
	classifyCmd.Flags().Int("workers", 0, "Parallel classifications (overrides CLASSIFY_WORKERS)")
	classifyCmd.Flags().Bool("swatches", false, "Print prominent swatches for clothes")
}

func runClassify(cmd *cobra.Command, args []string) error {
	switch kind := mustGetString(cmd, "kind"); kind {
	case "face":
		for _, path := range args {
			fmt.Printf("%s\t%s\n", path, wardrobe.DetectSkinToneFile(path))
		}
		return nil
	case "clothes":
		return classifyClothes(cmd, args)
	default:
		return fmt.Errorf("unknown kind %q: expected face or clothes", kind)
	}
}

func classifyClothes(cmd *cobra.Command, paths []string) error {
	workers := mustGetInt(cmd, "workers")
	if workers <= 0 {
		workers = config.Load().Classify.Workers
	}

	var bar *progressbar.ProgressBar
	var progress wardrobe.ProgressFunc
	if len(paths) > 1 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Classifying"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
		progress = func(done, total int, path string) {
			bar.Add(1)
		}
	}

	items := wardrobe.ClassifyFiles(context.Background(), paths, workers, progress)
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	showSwatches := mustGetBool(cmd, "swatches")
	for _, item := range items {
		if showSwatches && len(item.Swatches) > 0 {
			fmt.Printf("%s\t%s\t%s\n", item.Path, item.Color, strings.Join(item.Swatches, " "))
			continue
		}
		fmt.Printf("%s\t%s\n", item.Path, item.Color)
	}
	return nil
}
