package cli

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/raw-editor-mcp/internal/adjust"
	"github.com/ironsheep/raw-editor-mcp/internal/metadata"
	"github.com/ironsheep/raw-editor-mcp/internal/raw"
	"github.com/ironsheep/raw-editor-mcp/internal/server"
)

func newServeCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP (Model Context Protocol) server. Requests are read from stdin and
responses written to stdout, one JSON-RPC message per line. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := root.newController(true)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			root.logger.Info("raw editor MCP server starting",
				"version", root.info.Version,
				"decoder", root.cfg.Decoder.Backend,
				"preview_scale", root.cfg.Editing.PreviewScale,
				"debounce_ms", root.cfg.Editing.DebounceMs,
			)
			srv := server.New(ctrl, root.logger, root.info.Version)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newDevelopCmd(root *Root) *cobra.Command {
	var (
		output     string
		exposure   float64
		saturation float64
		vibrance   float64
		quality    int
	)

	cmd := &cobra.Command{
		Use:   "develop <raw_file>",
		Short: "Apply adjustments to a RAW file and write a JPEG",
		Long: `Decode a RAW file, apply exposure, saturation, and vibrance at full
resolution, and save the result as JPEG. Each adjustment ranges from -1 to 1;
exposure is measured in stops.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".jpg"
			}
			if cmd.Flags().Changed("quality") {
				root.cfg.Export.JPEGQuality = quality
			}

			params := adjust.Parameters{Exposure: exposure, Saturation: saturation, Vibrance: vibrance}
			if err := params.Validate(); err != nil {
				return err
			}

			ctrl, err := root.newController(false)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := ctrl.LoadFile(cmd.Context(), input); err != nil {
				return err
			}
			if _, err := ctrl.SetParameters(params); err != nil {
				return err
			}
			if err := ctrl.Export(cmd.Context(), output); err != nil {
				return err
			}

			full := ctrl.FullRes()
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %s)\n", output, full.Width, full.Height, params)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output JPEG path (default: input name with .jpg)")
	cmd.Flags().Float64Var(&exposure, "exposure", 0, "exposure in stops, -1 to 1")
	cmd.Flags().Float64Var(&saturation, "saturation", 0, "saturation, -1 (gray) to 1")
	cmd.Flags().Float64Var(&vibrance, "vibrance", 0, "vibrance, -1 to 1")
	cmd.Flags().IntVarP(&quality, "quality", "q", raw.DefaultJPEGQuality, "JPEG quality, 1-100")

	return cmd
}

func newMetaCmd(root *Root) *cobra.Command {
	var camera bool

	cmd := &cobra.Command{
		Use:   "meta <raw_file>",
		Short: "List EXIF metadata of a RAW file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := root.newReader().Read(cmd.Context(), args[0])
			out := cmd.OutOrStdout()

			if camera {
				info := metadata.ParseCameraLensInfo(m)
				fmt.Fprintf(out, "Camera:       %s %s\n", info.Make, info.Model)
				fmt.Fprintf(out, "Lens:         %s\n", info.LensModel)
				fmt.Fprintf(out, "Focal length: %.1f mm\n", info.FocalLengthMm)
				fmt.Fprintf(out, "Aperture:     f/%.1f\n", info.FNumber)
				return nil
			}

			if len(m) == 0 {
				fmt.Fprintln(out, "No metadata found")
				return nil
			}
			printRows(out, m.Rows())
			return nil
		},
	}

	cmd.Flags().BoolVar(&camera, "camera", false, "show derived camera and lens parameters instead of raw tags")
	return cmd
}

func newVersionCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rawedit %s\n", root.info.Version)
			fmt.Fprintf(out, "  Build time: %s\n", root.info.BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", root.info.GitCommit)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "Decoder backends: %s (configured: %s)\n",
				strings.Join(raw.Backends(), ", "), root.cfg.Decoder.Backend)
			fmt.Fprintf(out, "Supported formats: %s\n", raw.FileFilter())
			return nil
		},
	}
}
