package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/plycloud/internal/render"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		width, height float64
		title         string
		gridPrefix    bool
	)

	cmd := &cobra.Command{
		Use:   "plot IN OUT",
		Short: "Render a top-down scatter of a PLY file coloured by Z",
		Long: `Writes OUT as .png, .svg or .pdf depending on its extension. Sizes are in inches.
IN ending in .bin is read as a raw float32 dump.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				width = a.cfg.GetPlotWidth()
			}
			if !cmd.Flags().Changed("height") {
				height = a.cfg.GetPlotHeight()
			}

			cloud, _, _, err := a.load(args[0], gridPrefix)
			if err != nil {
				return err
			}

			opts := render.DefaultOptions()
			opts.Width = vg.Length(width) * vg.Inch
			opts.Height = vg.Length(height) * vg.Inch
			if title != "" {
				opts.Title = title
			}
			if err := render.Save(cloud, args[1], opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "plotted %d points to %s\n", cloud.Len(), args[1])
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", 8, "plot width in inches")
	cmd.Flags().Float64Var(&height, "height", 8, "plot height in inches")
	cmd.Flags().StringVar(&title, "title", "", "plot title")
	cmd.Flags().BoolVar(&gridPrefix, "grid-prefix", false, "a .bin input starts with int32 width and height")
	return cmd
}
