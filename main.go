package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"fish-morphology/pkg/cv"
	"fish-morphology/pkg/fish"
	"fish-morphology/pkg/region"
	"fish-morphology/pkg/trait"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rootCmd = &cobra.Command{
	Use:   "fish-morphology",
	Short: "CLI tool for fish trait morphology",
	Long:  "A CLI tool that reads segmented fish images, checks which traits are present, places anatomical landmarks and measures the specimen.",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image-path] [presence-json]",
	Short: "Measure a segmented fish image",
	Long:  "Aligns the fish and writes the trait presence matrix to presence-json. On request it also writes the measurement record, the landmark map and overlay images of landmarks, trait boxes and body axes.",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

var presenceCmd = &cobra.Command{
	Use:   "presence [image-path]",
	Short: "Print the trait presence matrix of a segmented fish image",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresence,
}

var traitsCmd = &cobra.Command{
	Use:   "traits",
	Short: "Print the trait color table as YAML",
	Args:  cobra.NoArgs,
	RunE:  runTraits,
}

var (
	metadataPath   string
	morphologyPath string
	landmarkPath   string
	lmImagePath    string
	bboxImagePath  string
	axisImagePath  string
	traitsPath     string
	cutoff         float64
	noAlign        bool
	workers        int
	verbose        bool
)

func init() {
	for _, cmd := range []*cobra.Command{analyzeCmd, presenceCmd, traitsCmd} {
		cmd.Flags().StringVar(&traitsPath, "traits", "", "YAML or JSON trait color table (default: built-in table)")
	}
	for _, cmd := range []*cobra.Command{analyzeCmd, presenceCmd} {
		cmd.Flags().Float64Var(&cutoff, "cutoff", fish.DefaultConfig().Cutoff, "minimum share of a trait the largest blob must hold")
		cmd.Flags().BoolVar(&noAlign, "no-align", false, "measure the image as is, without rotating the fish to horizontal")
		cmd.Flags().IntVar(&workers, "workers", fish.DefaultConfig().Workers, "number of traits cleaned in parallel")
		cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline decisions to stderr")
	}
	analyzeCmd.Flags().StringVar(&metadataPath, "metadata", "", "metadata JSON holding the ruler scale and unit")
	analyzeCmd.Flags().StringVar(&morphologyPath, "morphology", "", "write the measurement record to this file")
	analyzeCmd.Flags().StringVar(&landmarkPath, "landmark", "", "write the landmark map to this file")
	analyzeCmd.Flags().StringVar(&lmImagePath, "lm-image", "", "write the landmark overlay image to this file")
	analyzeCmd.Flags().StringVar(&bboxImagePath, "bbox-image", "", "write the cleaned trait bounding boxes to this image file")
	analyzeCmd.Flags().StringVar(&axisImagePath, "axis-image", "", "write the body's major and minor axes to this image file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(presenceCmd)
	rootCmd.AddCommand(traitsCmd)
}

func loadTable() (*trait.Table, error) {
	if traitsPath == "" {
		return trait.DefaultTable(), nil
	}
	t, err := trait.LoadTable(traitsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load trait table: %w", err)
	}
	return t, nil
}

func buildConfig() (fish.Config, error) {
	cfg := fish.DefaultConfig()
	t, err := loadTable()
	if err != nil {
		return cfg, err
	}
	cfg.Traits = t
	cfg.Cutoff = cutoff
	cfg.Align = !noAlign
	cfg.Workers = workers
	out := io.Discard
	if verbose {
		out = os.Stderr
	}
	cfg.Logger = log.New(out, "fish-morphology: ", log.LstdFlags)
	return cfg, nil
}

func analyzeImage(imagePath string) (*fish.Specimen, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	img, err := cv.LoadSegmentedImage(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load segmented image: %w", err)
	}

	sp, err := fish.Analyze(img, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze fish: %w", err)
	}
	return sp, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	presencePath := args[1]
	baseName := fish.BaseName(imagePath)

	var scale fish.Scale
	if metadataPath != "" {
		s, err := fish.ReadScale(metadataPath)
		if err != nil {
			return fmt.Errorf("failed to read scale: %w", err)
		}
		scale = s
	}

	sp, err := analyzeImage(imagePath)
	if err != nil {
		return err
	}

	if err := fish.WriteJSON(presencePath, sp.PresenceMatrix(baseName)); err != nil {
		return err
	}
	if morphologyPath != "" {
		if err := fish.WriteJSON(morphologyPath, sp.Record(baseName, scale)); err != nil {
			return err
		}
	}
	if landmarkPath != "" {
		if err := fish.WriteJSON(landmarkPath, sp.Landmarks); err != nil {
			return err
		}
	}
	if lmImagePath != "" {
		if err := cv.NewLandmarkRenderer().Save(lmImagePath, sp.Image, sp.Landmarks); err != nil {
			return fmt.Errorf("failed to render landmarks: %w", err)
		}
	}
	if bboxImagePath != "" {
		var regions []*region.Region
		for _, tm := range sp.Masks {
			regions = append(regions, sp.Regions[tm.Name])
		}
		if err := cv.NewRegionRenderer().SaveBoxes(bboxImagePath, sp.Image, regions...); err != nil {
			return fmt.Errorf("failed to render bounding boxes: %w", err)
		}
	}
	if axisImagePath != "" {
		if err := cv.NewRegionRenderer().SaveAxes(axisImagePath, sp.Image, sp.Body); err != nil {
			return fmt.Errorf("failed to render axes: %w", err)
		}
	}
	return nil
}

func runPresence(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	sp, err := analyzeImage(imagePath)
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(sp.PresenceMatrix(fish.BaseName(imagePath)), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Println(string(output))
	return nil
}

func runTraits(cmd *cobra.Command, args []string) error {
	t, err := loadTable()
	if err != nil {
		return err
	}

	output, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Print(string(output))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
