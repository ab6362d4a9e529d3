// Package cli implements the plycloud command tree.
package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/banshee-data/plycloud/internal/config"
	"github.com/banshee-data/plycloud/internal/fsutil"
	"github.com/banshee-data/plycloud/internal/monitoring"
	"github.com/banshee-data/plycloud/internal/ply"
	"github.com/banshee-data/plycloud/internal/pointcloud"
	"github.com/banshee-data/plycloud/internal/rawcloud"
)

// app is the state shared by every subcommand of one root command.
type app struct {
	cfgFile string
	verbose bool

	fs    fsutil.FileSystem
	codec *ply.Codec
	cfg   *config.Config
}

// NewRootCmd builds a fresh command tree. Each call has its own flag state,
// so tests can execute several trees in one process.
func NewRootCmd() *cobra.Command {
	return newRootCmd(fsutil.OSFileSystem{})
}

func newRootCmd(fsys fsutil.FileSystem) *cobra.Command {
	a := &app{fs: fsys, codec: ply.NewCodec(fsys)}

	root := &cobra.Command{
		Use:   "plycloud",
		Short: "Inspect, convert and generate PLY point clouds",
		Long: `plycloud reads and writes vertex-only PLY files (ASCII or binary
little-endian), including scanner files with obj_info grid dimensions and a
range_grid element. It can also transform clouds, dump them as raw float32,
plot them, and generate a synthetic sine-wave height field.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (.json, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log codec diagnostics to stderr")

	root.AddCommand(
		newGenerateCmd(a),
		newInfoCmd(a),
		newConvertCmd(a),
		newPlotCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Empty()
	if a.cfgFile != "" {
		cfg, err := config.Load(a.fs, a.cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}

	if a.verbose || a.cfg.GetVerbose() {
		monitoring.SetLogger(log.New(cmd.ErrOrStderr(), "plycloud: ", log.LstdFlags).Printf)
	} else {
		monitoring.SetLogger(nil)
	}
	return nil
}

// asciiOutput resolves the body format from --binary and the config.
func (a *app) asciiOutput(cmd *cobra.Command, binary bool) bool {
	if cmd.Flags().Changed("binary") {
		return !binary
	}
	return a.cfg.GetASCII()
}

// load reads a PLY file, or a raw dump when path ends in .bin. gridPrefix
// says whether the dump starts with its width and height.
func (a *app) load(path string, gridPrefix bool) (*pointcloud.Cloud, int, int, error) {
	if isRaw(path) {
		return rawcloud.Load(a.fs, path, gridPrefix)
	}
	return a.codec.Load(path)
}
