// Package cli implements the rawedit command line: the MCP server and one-shot
// develop and metadata commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/raw-editor-mcp/internal/config"
	"github.com/ironsheep/raw-editor-mcp/internal/editor"
	"github.com/ironsheep/raw-editor-mcp/internal/logging"
	"github.com/ironsheep/raw-editor-mcp/internal/metadata"
	"github.com/ironsheep/raw-editor-mcp/internal/raw"
)

// cacheLimit is the number of decoded rasters the server keeps for reloads.
const cacheLimit = 4

// BuildInfo identifies the binary. Values are set by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// Root carries state shared by every subcommand: the resolved configuration
// and the logger built from it.
type Root struct {
	info   BuildInfo
	cfg    *config.Config
	logger *slog.Logger

	configPath   string
	logLevel     string
	decoder      string
	previewScale float64
	debounce     time.Duration
}

// NewRootCmd creates the root Cobra command
func NewRootCmd(info BuildInfo) *cobra.Command {
	root := &Root{info: info}

	rootCmd := &cobra.Command{
		Use:   "rawedit",
		Short: "rawedit adjusts exposure, saturation, and vibrance of RAW photos",
		Long: `rawedit decodes camera RAW files and applies exposure, saturation, and vibrance
adjustments. It runs as an MCP server over stdio for interactive editing, or
develops a single file from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&root.configPath, "config", "", "config file (default $RAWEDIT_CONFIG or ~/.config/raw-editor-mcp/config.json)")
	flags.StringVar(&root.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringVar(&root.decoder, "decoder", "", "RAW decoder backend (dcraw|image|imagick)")
	flags.Float64Var(&root.previewScale, "preview-scale", 0, "preview size as a fraction of full resolution, (0,1]")
	flags.DurationVar(&root.debounce, "debounce", 0, "quiet period before the full-resolution commit")

	rootCmd.AddCommand(newServeCmd(root))
	rootCmd.AddCommand(newDevelopCmd(root))
	rootCmd.AddCommand(newMetaCmd(root))
	rootCmd.AddCommand(newVersionCmd(root))

	return rootCmd
}

// setup resolves configuration (file, then environment, then flags) and
// builds the logger on the command's stderr.
func (r *Root) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if r.configPath != "" {
		cfg, err = config.LoadFile(r.configPath)
		if err == nil {
			cfg.ApplyEnv()
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = r.logLevel
	}
	if flags.Changed("decoder") {
		cfg.Decoder.Backend = r.decoder
	}
	if flags.Changed("preview-scale") {
		cfg.Editing.PreviewScale = r.previewScale
	}
	if flags.Changed("debounce") {
		cfg.Editing.DebounceMs = int(r.debounce / time.Millisecond)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	r.cfg = cfg
	r.logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

// newDecoder builds the configured backend, optionally behind a raster cache.
func (r *Root) newDecoder(cached bool) (raw.Decoder, error) {
	d, err := raw.NewDecoder(r.cfg.Decoder.Backend, raw.Options{
		DcrawPath: r.cfg.Decoder.DcrawPath,
		DcrawArgs: r.cfg.Decoder.DcrawArgs,
	})
	if err != nil {
		return nil, err
	}
	if a, ok := d.(interface{ Available() bool }); ok {
		logging.LogToolStatus(r.logger, r.cfg.Decoder.Backend, a.Available(), r.cfg.Decoder.DcrawPath)
	}
	if cached {
		return raw.NewCache(d, cacheLimit), nil
	}
	return d, nil
}

// newReader builds the EXIF reader chain.
func (r *Root) newReader() metadata.Reader {
	exif := metadata.NewExifReader(r.logger)
	if !r.cfg.Metadata.ExiftoolFallback {
		return exif
	}
	tool := &metadata.ExiftoolReader{Path: r.cfg.Metadata.ExiftoolPath, Logger: r.logger}
	logging.LogToolStatus(r.logger, "exiftool", tool.Available(), r.cfg.Metadata.ExiftoolPath)
	return metadata.FallbackReader{exif, tool}
}

// newController wires decoder, reader, and encoder into an edit controller.
func (r *Root) newController(cached bool) (*editor.Controller, error) {
	d, err := r.newDecoder(cached)
	if err != nil {
		return nil, err
	}
	return editor.NewController(editor.Options{
		Decoder:      d,
		Metadata:     r.newReader(),
		Encoder:      raw.JPEGEncoder{Quality: r.cfg.Export.JPEGQuality},
		PreviewScale: r.cfg.Editing.PreviewScale,
		Debounce:     r.cfg.Debounce(),
		Logger:       r.logger,
	}), nil
}

func printRows(w io.Writer, rows []metadata.Row) {
	width := 0
	for _, row := range rows {
		if len(row.Key) > width {
			width = len(row.Key)
		}
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-*s  %s\n", width, row.Key, row.Value)
	}
}
