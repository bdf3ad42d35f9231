package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/pdf"
	"github.com/spherical/pdf2image/internal/ui"
)

func newInfoCommand(g *globalOptions) *cobra.Command {
	var scale float64
	var backend string

	cmd := &cobra.Command{
		Use:   "info <file.pdf>",
		Short: "Show page count and output sizes of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("scale") {
				g.cfg.Render.Scale = scale
			}
			if cmd.Flags().Changed("backend") {
				g.cfg.Render.Backend = backend
			}
			if err := g.cfg.Validate(); err != nil {
				return err
			}
			return runInfo(cmd, g, args[0])
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 0, "render scale used for pixel sizes (default from config)")
	cmd.Flags().StringVar(&backend, "backend", "", "render backend: fitz or pdfium (default from config)")

	return cmd
}

func runInfo(cmd *cobra.Command, g *globalOptions, path string) error {
	validator := pdf.NewValidator(g.cfg.MaxFileSize())
	if err := validator.ValidatePDFPath(path); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.IOError(fmt.Sprintf("read %s", path), err)
	}

	opener, closer, err := pdf.NewOpener(g.cfg.Render.Backend)
	if err != nil {
		return err
	}
	defer closer.Close()

	spinner := g.term.NewSpinner("Loading PDF file...")
	spinner.Start()
	doc, err := opener.Open(cmd.Context(), data)
	spinner.Stop()
	if err != nil {
		return err
	}
	defer doc.Close()

	scale := g.cfg.Render.Scale
	rows := make([][]string, 0, doc.PageCount())
	for i := 1; i <= doc.PageCount(); i++ {
		page, err := doc.Page(i)
		if err != nil {
			return domain.RenderError(fmt.Sprintf("read page %d", i), err)
		}
		widthPt, heightPt := page.Size()
		w, h := pdf.Viewport(widthPt, heightPt, scale)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%gx%g", widthPt, heightPt),
			fmt.Sprintf("%dx%d", w, h),
		})
	}

	g.term.Section(filepath.Base(path))
	g.term.Info("Size: %s", ui.FormatBytes(int64(len(data))))
	g.term.Info("Pages: %d", doc.PageCount())
	g.term.Info("Base name: %s", domain.BaseName(filepath.Base(path)))
	g.term.Newline()
	g.term.Table([]string{"Page", "Points", fmt.Sprintf("Pixels @ %gx", scale)}, rows)

	return nil
}
