package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/plycloud/internal/pointcloud"
	"github.com/banshee-data/plycloud/internal/rawcloud"
)

type convertOptions struct {
	binary     bool
	noGrid     bool
	flatten    bool
	gridPrefix bool

	rotate []float32
	scale  []float32
	shift  []float32

	plane       []float32
	planeLevel  float32
	planeInvert bool
}

func newConvertCmd(a *app) *cobra.Command {
	var o convertOptions

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-encode a PLY file, optionally transforming it",
		Long: `Loads IN, applies the requested transforms in the order
rotate, scale, shift, suppress-plane, flatten, and writes OUT.
IN or OUT ending in .bin is a raw float32 dump; pass --grid-prefix when
the input dump starts with its width and height.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cloud, w, h, err := a.load(args[0], o.gridPrefix)
			if err != nil {
				return err
			}
			if err := o.apply(cloud); err != nil {
				return err
			}
			if o.noGrid || !a.cfg.GetKeepGrid() {
				w, h = 0, 0
			}

			out := args[1]
			if isRaw(out) {
				err = rawcloud.Save(a.fs, cloud, out, w, h)
			} else {
				err = a.codec.Save(cloud, out, a.asciiOutput(cmd, o.binary), w, h)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d points: %s -> %s\n", cloud.Len(), args[0], out)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.binary, "binary", false, "write a binary little-endian body instead of ASCII")
	f.BoolVar(&o.noGrid, "no-grid", false, "drop the grid dimensions from the output")
	f.BoolVar(&o.gridPrefix, "grid-prefix", false, "a .bin input starts with int32 width and height")
	f.BoolVar(&o.flatten, "flatten", false, "set Z to 0 for every point")
	f.Float32SliceVar(&o.rotate, "rotate", nil, "rotation in degrees about X,Y,Z")
	f.Float32SliceVar(&o.scale, "scale", nil, "scale factors X,Y,Z")
	f.Float32SliceVar(&o.shift, "shift", nil, "translation X,Y,Z")
	f.Float32SliceVar(&o.plane, "suppress-plane", nil, "plane NX,NY,NZ,D; points behind it get Z = --suppress-level")
	f.Float32Var(&o.planeLevel, "suppress-level", 0, "Z assigned to suppressed points")
	f.BoolVar(&o.planeInvert, "suppress-invert", false, "suppress points in front of the plane instead")
	return cmd
}

func (o *convertOptions) apply(cloud *pointcloud.Cloud) error {
	for _, v := range []struct {
		name string
		vals []float32
		want int
	}{
		{"rotate", o.rotate, 3},
		{"scale", o.scale, 3},
		{"shift", o.shift, 3},
		{"suppress-plane", o.plane, 4},
	} {
		if v.vals != nil && len(v.vals) != v.want {
			return fmt.Errorf("--%s needs %d values, got %d", v.name, v.want, len(v.vals))
		}
	}

	if o.rotate != nil {
		cloud.Rotate(o.rotate[0], o.rotate[1], o.rotate[2])
	}
	if o.scale != nil {
		cloud.Scale(o.scale[0], o.scale[1], o.scale[2])
	}
	if o.shift != nil {
		cloud.Shift(o.shift[0], o.shift[1], o.shift[2])
	}
	if o.plane != nil {
		pl := pointcloud.Plane{
			Normal: pointcloud.Point{X: o.plane[0], Y: o.plane[1], Z: o.plane[2]},
			D:      o.plane[3],
		}
		cloud.SuppressTo(pl, o.planeLevel, o.planeInvert)
	}
	if o.flatten {
		cloud.FlattenZ()
	}
	return nil
}
