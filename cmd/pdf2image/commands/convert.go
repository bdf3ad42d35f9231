package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf2image/internal/convert"
	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/encode"
	"github.com/spherical/pdf2image/internal/export"
	"github.com/spherical/pdf2image/internal/pdf"
	"github.com/spherical/pdf2image/internal/ui"
)

type convertOptions struct {
	mode    string
	format  string
	scale   float64
	quality int
	output  string
	backend string
	force   bool
}

func newConvertCommand(g *globalOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file.pdf>",
		Short: "Convert a PDF into images",
		Long: `Convert renders each page of a PDF and writes the result to the output directory.

In separate mode every page becomes {name}_page_001.{format}, {name}_page_002.{format}, ...
In long mode all pages are stacked vertically into {name}_long_image.{format}.`,
		Example: `  pdf2image convert brochure.pdf
  pdf2image convert --mode long --format jpeg --quality 85 brochure.pdf
  pdf2image convert -o out --scale 3 --backend pdfium brochure.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, g, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "output mode: separate or long (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "image format: png, jpeg, gif, tiff, bmp (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "render scale, 1.0 = 72 DPI (default from config)")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100 (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "render backend: fitz or pdfium (default from config)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite existing files")

	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (o *convertOptions) apply(cmd *cobra.Command, g *globalOptions) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		g.cfg.Output.Mode = o.mode
	}
	if flags.Changed("format") {
		g.cfg.Output.Format = o.format
	}
	if flags.Changed("scale") {
		g.cfg.Render.Scale = o.scale
	}
	if flags.Changed("quality") {
		g.cfg.Output.Quality = o.quality
	}
	if flags.Changed("output") {
		g.cfg.Output.Dir = o.output
	}
	if flags.Changed("backend") {
		g.cfg.Render.Backend = o.backend
	}
	return g.cfg.Validate()
}

func runConvert(cmd *cobra.Command, g *globalOptions, opts *convertOptions, path string) error {
	if err := opts.apply(cmd, g); err != nil {
		return err
	}
	outCfg, err := g.cfg.OutputConfig()
	if err != nil {
		return err
	}

	validator := pdf.NewValidator(g.cfg.MaxFileSize())
	if err := validator.ValidatePDFPath(path); err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			g.term.Warning("Received interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	opener, closer, err := pdf.NewOpener(g.cfg.Render.Backend)
	if err != nil {
		return err
	}
	defer closer.Close()

	f, err := os.Open(path)
	if err != nil {
		return domain.IOError(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.IOError(fmt.Sprintf("stat %s", path), err)
	}

	g.term.Section("PDF Conversion")
	g.term.Info("File: %s (%s)", filepath.Base(path), ui.FormatBytes(info.Size()))
	g.term.Info("Mode: %s, format: %s, scale: %gx, backend: %s", outCfg.Mode, outCfg.Format, g.cfg.Render.Scale, g.cfg.Render.Backend)

	bar := g.term.NewProgressBar("Loading PDF file")
	orch := convert.New(opener, pdf.NewRenderer(g.logger), encode.New(),
		convert.WithLogger(g.logger),
		convert.WithProgress(bar.Func()),
	)
	defer orch.Close()

	startTime := time.Now()
	images, err := orch.StartConversion(ctx, domain.SourceFile{Name: filepath.Base(path), Reader: f}, outCfg, g.cfg.Render.Scale)
	if err != nil {
		g.term.Newline()
		return fmt.Errorf("conversion failed: %w", err)
	}
	bar.Finish()

	writer := export.NewWriter(g.cfg.Output.Dir, opts.force, g.logger)
	paths, err := writer.WriteAll(ctx, images)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(images))
	for i, img := range images {
		rows = append(rows, []string{
			paths[i],
			fmt.Sprintf("%dx%d", img.Width, img.Height),
			ui.FormatBytes(int64(len(img.Data))),
		})
	}

	if !g.quiet {
		g.term.Newline()
		g.term.Table([]string{"File", "Pixels", "Size"}, rows)
		g.term.Newline()
	}
	g.term.Success("%s in %s", orch.Progress().Message, ui.FormatDuration(time.Since(startTime)))

	return nil
}
