package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KJLJon/Posterize-Image/image2palette"
	"github.com/KJLJon/Posterize-Image/image2svg"
	"github.com/KJLJon/Posterize-Image/palette2image"
	pstypes "github.com/KJLJon/Posterize-Image/type"
)

var rootCmd = &cobra.Command{
	Use:   "posterize",
	Short: "Posterize raster images to a small palette and vectorize the result",
}

var (
	flagColors    int
	flagAlgorithm string
	flagMode      string
	flagSmoothing string
	flagEngine    string
	flagPreSmooth bool
	flagClean     bool
	flagSeed      int64
	flagMaxWidth  int
	flagOutput    string

	flagEraseAt    []string
	flagEraseColor []string
	flagAreaTol    int
	flagColorTol   int

	flagFPS      int
	flagParallel int
	flagSerial   bool
)

var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Posterize a single image file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions()
		if err != nil {
			return err
		}

		buf, err := loadImage(args[0], flagMaxWidth)
		if err != nil {
			return err
		}

		log.Printf("posterizing %s (%dx%d) with %d colors", args[0], buf.Width, buf.Height, opts.Colors)
		res, err := posterize(buf, opts)
		if err != nil {
			return err
		}

		ops, err := parseEraseOps()
		if err != nil {
			return err
		}
		if len(ops) > 0 {
			edited, err := applyErases(res.Mapped, ops)
			if err != nil {
				return err
			}
			res.Mapped = edited
			// 擦除改变了区域归属，重新矢量化
			res.SVG, err = image2svg.Convert(opts.Engine, edited, res.Palette, opts.Smoothing)
			if err != nil {
				return err
			}
		}

		return writeOutput(flagOutput, res)
	},
}

var videoCmd = &cobra.Command{
	Use:   "video <file>",
	Short: "Posterize video frames into per-frame SVG documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions()
		if err != nil {
			return err
		}
		return posterizeVideo(cmd.Context(), args[0], flagFPS, flagMaxWidth, flagOutput, opts, flagParallel, flagSerial)
	},
}

// buildOptions 把命令行标签转换为核心配置并逐项校验
func buildOptions() (Options, error) {
	alg := image2palette.Algorithm(flagAlgorithm)
	if alg != image2palette.AlgorithmKMeans && alg != image2palette.AlgorithmMedianCut {
		return Options{}, fmt.Errorf("unknown algorithm %q", flagAlgorithm)
	}
	mode, err := palette2image.ParseMode(flagMode)
	if err != nil {
		return Options{}, err
	}
	level, err := image2svg.ParseLevel(flagSmoothing)
	if err != nil {
		return Options{}, err
	}
	engine, err := image2svg.ParseEngine(flagEngine)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Colors:     flagColors,
		Algorithm:  alg,
		Mode:       mode,
		Smoothing:  level,
		Engine:     engine,
		PreSmooth:  flagPreSmooth,
		CleanEdges: flagClean,
		Seed:       flagSeed,
	}, nil
}

// parseEraseOps 解析 --erase-at 与 --erase-color 标签
func parseEraseOps() ([]eraseOp, error) {
	var ops []eraseOp
	for _, spec := range flagEraseAt {
		parts := strings.Split(spec, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid erase position %q, want x,y", spec)
		}
		x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid erase position %q: %w", spec, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid erase position %q: %w", spec, err)
		}
		ops = append(ops, eraseOp{region: true, x: x, y: y, tolerance: flagAreaTol})
	}
	for _, hex := range flagEraseColor {
		c, err := pstypes.ParseHex(hex)
		if err != nil {
			return nil, err
		}
		ops = append(ops, eraseOp{color: c, tolerance: flagColorTol})
	}
	return ops, nil
}

func init() {
	for _, cmd := range []*cobra.Command{imageCmd, videoCmd} {
		cmd.Flags().IntVar(&flagColors, "colors", 4, "palette size (2-16)")
		cmd.Flags().StringVar(&flagAlgorithm, "algorithm", string(image2palette.AlgorithmKMeans), "palette extraction algorithm: kmeans or mediancut")
		cmd.Flags().StringVar(&flagMode, "mode", string(palette2image.ModeClosest), "mapping mode label: direct or closest")
		cmd.Flags().StringVar(&flagSmoothing, "smoothing", string(image2svg.LevelSimple), "smoothing level: simple or complex")
		cmd.Flags().StringVar(&flagEngine, "engine", string(image2svg.EngineInterior), "trace engine: interior or potrace")
		cmd.Flags().BoolVar(&flagPreSmooth, "presmooth", false, "apply 3x3 box blur before quantization")
		cmd.Flags().BoolVar(&flagClean, "clean", false, "clean anti-aliased edge artifacts before mapping")
		cmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed for reproducible palettes (0 = time seed)")
		cmd.Flags().IntVar(&flagMaxWidth, "width", 0, "downscale to this max width before processing (0 = keep)")
		cmd.Flags().StringVar(&flagOutput, "output", "output.svg", "output path (.svg, .svgz, .json or .png)")
	}

	imageCmd.Flags().StringArrayVar(&flagEraseAt, "erase-at", nil, "flood-fill erase from x,y on the mapped image (repeatable)")
	imageCmd.Flags().StringArrayVar(&flagEraseColor, "erase-color", nil, "erase all pixels matching #RRGGBB (repeatable)")
	imageCmd.Flags().IntVar(&flagAreaTol, "area-tolerance", palette2image.DefaultRegionTolerance, "tolerance for flood-fill erase")
	imageCmd.Flags().IntVar(&flagColorTol, "color-tolerance", palette2image.DefaultColorTolerance, "tolerance for color match erase")

	videoCmd.Flags().IntVar(&flagFPS, "fps", 10, "frames per second to extract")
	videoCmd.Flags().IntVar(&flagParallel, "parallel", 4, "max goroutines for frame processing")
	videoCmd.Flags().BoolVar(&flagSerial, "serial", false, "process frames serially to minimize memory")

	rootCmd.AddCommand(imageCmd, videoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
