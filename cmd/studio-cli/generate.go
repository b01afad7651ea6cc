package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio/internal/cli"
	"github.com/fpang/product-studio/internal/filehandler"
	"github.com/fpang/product-studio/internal/prompt"
	"github.com/fpang/product-studio/internal/studio"
)

// Generation flags
var (
	imageFlag       string
	categoryFlag    string
	contextFlag     string
	descriptionFlag string
	aspectFlag      string
	sizeFlag        string
	qualityFlag     string
	durationFlag    int
	outFlag         string

	customEnvironmentFlag string
	customSurfaceFlag     string
	customLightingFlag    string
	customMoodFlag        string
	customPropsFlag       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a product photo",
	Long: `Analyze inspects a product photo and prints the structured analysis the
generation modes build their prompts from: product type, materials, colors,
and the features a scene must preserve.`,
	Run: runAnalyze,
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Place the product photo into a styled scene",
	Run:   func(cmd *cobra.Command, args []string) { runImageMode("edit") },
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new high-resolution marketing image",
	Run:   func(cmd *cobra.Command, args []string) { runImageMode("generate") },
}

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Animate the product into a short video",
	Run:   runVideo,
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, editCmd, generateCmd, videoCmd} {
		c.Flags().StringVarP(&imageFlag, "image", "i", "", "Product photo path (opens a file picker when omitted)")
	}
	for _, c := range []*cobra.Command{editCmd, generateCmd, videoCmd} {
		c.Flags().StringVar(&categoryFlag, "category", "GAME", "Product category: GAME or FURNITURE")
		c.Flags().StringVar(&contextFlag, "context", "", "Visual context ID (g1-g9 or f1-f9)")
		c.Flags().StringVar(&descriptionFlag, "description", "", "Product description used when skipping analysis")
		c.Flags().StringVar(&aspectFlag, "aspect", "1:1", "Aspect ratio: 1:1, 4:5, 16:9, 9:16")
		c.Flags().StringVarP(&outFlag, "out", "o", "", "Output file path (default derived from the entry ID)")

		c.Flags().StringVar(&customEnvironmentFlag, "env", "", "Custom scene: environment")
		c.Flags().StringVar(&customSurfaceFlag, "surface", "", "Custom scene: surface or support")
		c.Flags().StringVar(&customLightingFlag, "lighting", "", "Custom scene: lighting")
		c.Flags().StringVar(&customMoodFlag, "mood", "", "Custom scene: mood")
		c.Flags().StringVar(&customPropsFlag, "props", "", "Custom scene: props")
	}
	generateCmd.Flags().StringVar(&sizeFlag, "size", "1K", "Output resolution: 1K, 2K, 4K")
	videoCmd.Flags().StringVar(&qualityFlag, "quality", "fast", "Video model: fast or pro")
	videoCmd.Flags().IntVar(&durationFlag, "duration", 0, "Video duration in seconds (0 lets the model decide)")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	img := mustPickImage()

	if img.Path != "" {
		if meta, err := filehandler.ExtractImageMetadata(img.Path); err == nil {
			fmt.Printf("Photo: %s\n", meta.Summary())
		}
	}

	ctx, client := cli.InitGeminiClient()
	analysis, err := client.AnalyzeProduct(ctx, img.Data, img.MIMEType)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render analysis")
	}
	fmt.Println(string(out))
}

func runImageMode(mode string) {
	img := mustPickImage()
	req := buildRequest(img)

	ctx, client := cli.InitGeminiClient()
	hist, media := openStores()
	defer media.Close()
	gen := studio.New(client, hist, media)

	maybeAnalyze(ctx, gen, &req)

	start := time.Now()
	var result *studio.Result
	var err error
	if mode == "edit" {
		result, err = gen.Edit(ctx, req)
	} else {
		req.ImageSize = sizeFlag
		result, err = gen.Generate(ctx, req)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	writeResult(result, start)
}

func runVideo(cmd *cobra.Command, args []string) {
	img := mustPickImage()
	req := buildRequest(img)
	req.VideoQuality = qualityFlag
	req.VideoDurationSeconds = durationFlag

	ctx, client := cli.InitGeminiClient()
	hist, media := openStores()
	defer media.Close()
	gen := studio.New(client, hist, media)

	maybeAnalyze(ctx, gen, &req)

	fmt.Println("Generating video; this runs one to several minutes...")
	start := time.Now()
	result, err := gen.Video(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Video generation failed")
	}

	writeResult(result, start)
}

func mustPickImage() *filehandler.ProductImage {
	img, err := cli.PickProductImage(imageFlag)
	if err != nil {
		if errors.Is(err, cli.ErrCanceled) {
			fmt.Println("No photo selected.")
			os.Exit(0)
		}
		log.Fatal().Err(err).Msg("Failed to load product photo")
	}
	return img
}

func buildRequest(img *filehandler.ProductImage) studio.Request {
	req := studio.Request{
		Category:           prompt.Category(strings.ToUpper(categoryFlag)),
		ContextID:          contextFlag,
		ProductDescription: descriptionFlag,
		Image:              img,
		AspectRatio:        aspectFlag,
	}
	if customEnvironmentFlag != "" || customSurfaceFlag != "" || customLightingFlag != "" ||
		customMoodFlag != "" || customPropsFlag != "" {
		req.Custom = &prompt.CustomContext{
			Environment: customEnvironmentFlag,
			Surface:     customSurfaceFlag,
			Lighting:    customLightingFlag,
			Mood:        customMoodFlag,
			Props:       customPropsFlag,
		}
	}
	return req
}

// maybeAnalyze runs product analysis when no description was supplied;
// the analysis anchors product fidelity in the generation prompt.
func maybeAnalyze(ctx context.Context, gen *studio.Generator, req *studio.Request) {
	if req.ProductDescription != "" || req.Image == nil {
		return
	}
	analysis, err := gen.Analyze(ctx, req.Image)
	if err != nil {
		log.Warn().Err(err).Msg("Analysis failed, continuing without it")
		return
	}
	req.Analysis = analysis
	fmt.Printf("Analyzed: %s (%s)\n", analysis.NameSuggestion, analysis.ProductType)
}

// writeResult saves the generated payload next to the user and reports
// the recorded history entry.
func writeResult(result *studio.Result, start time.Time) {
	out := outFlag
	if out == "" {
		ext := ".png"
		switch result.MIMEType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/webp":
			ext = ".webp"
		case "video/mp4":
			ext = ".mp4"
		}
		out = result.Entry.ID + ext
	}
	if err := os.WriteFile(out, result.Data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("Failed to write output file")
	}

	fmt.Printf("Saved %s (%s) in %s\n", out, cli.FormatByteSize(int64(len(result.Data))), cli.FormatDurationShort(time.Since(start)))
	fmt.Printf("History entry: %s\n", result.Entry.ID)
	if result.Entry.MediaMissing {
		fmt.Println("Note: payload could not be stored in history; only the file above has it.")
	}
}
