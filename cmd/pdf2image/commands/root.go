package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical/pdf2image/internal/config"
	"github.com/spherical/pdf2image/internal/observability"
	"github.com/spherical/pdf2image/internal/ui"
)

// globalOptions holds persistent flags and the state built from them.
type globalOptions struct {
	cfgFile string
	verbose bool
	noColor bool
	quiet   bool

	cfg    *config.Config
	logger *observability.Logger
	term   *ui.UI
}

// NewRootCommand builds the pdf2image command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "pdf2image",
		Short: "PDF to image converter",
		Long: `pdf2image renders every page of a PDF document into raster images.

Pages can be written as one image file per page, or stacked top to bottom
into a single long image. Output formats are PNG, JPEG, GIF, TIFF and BMP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print errors")

	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newInfoCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *globalOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Observability.LogLevel = "debug"
	}
	o.cfg = cfg

	o.logger = observability.NewLogger(observability.LogConfig{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
		Output: cmd.ErrOrStderr(),
	})

	o.term = ui.NewWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), ui.Init(o.noColor), o.quiet)
	return nil
}
