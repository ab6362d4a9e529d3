package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/banshee-data/plycloud/internal/ply"
	"github.com/banshee-data/plycloud/internal/pointcloud"
)

var keyStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12")).
	Width(12)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print the header and a summary of a PLY file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			h, err := a.codec.Inspect(path)
			if err != nil {
				return err
			}
			cloud, w, ht, err := a.codec.Load(path)
			if err != nil {
				return err
			}
			st, err := a.fs.Stat(path)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), path, st.Size(), h, cloud, w, ht)
			return nil
		},
	}
}

func printInfo(out io.Writer, path string, size int64, h ply.Header, cloud *pointcloud.Cloud, w, ht int) {
	row := func(k, format string, args ...any) {
		fmt.Fprintf(out, "%s %s\n", keyStyle.Render(k), fmt.Sprintf(format, args...))
	}

	row("file", "%s (%s)", path, humanize.Bytes(uint64(size)))
	row("format", "%s", h.Format)
	row("vertices", "%s", humanize.Comma(int64(h.VertexCount)))
	if h.RangeGridCount > 0 {
		row("range_grid", "%s", humanize.Comma(int64(h.RangeGridCount)))
	}
	row("grid", "%dx%d", w, ht)
	row("points", "%s", humanize.Comma(int64(cloud.Len())))
	row("missing", "%d", cloud.MissingMask().Count())
	if lo, hi, ok := cloud.Bounds(); ok {
		row("min", "%g %g %g", lo.X, lo.Y, lo.Z)
		row("max", "%g %g %g", hi.X, hi.Y, hi.Z)
	}
}
