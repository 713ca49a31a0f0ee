package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ridemap",
		Short: "Ride-hailing navigation map generator and viewer",
	}

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(viewCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a scene spec and analyse its route",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func routeCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "route [project-path]",
		Short: "Build the configured route and print its waypoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRoute(args[0], jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the route as JSON")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		out     string
		frame   bool
		width   int
		height  int
		advance float64
	)

	cmd := &cobra.Command{
		Use:   "render [project-path]",
		Short: "Render the map, or a camera frame, to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRender(args[0], renderOptions{
				out:     out,
				frame:   frame,
				width:   width,
				height:  height,
				advance: advance,
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "map.png", "output PNG path")
	cmd.Flags().BoolVar(&frame, "frame", false, "render what the camera sees instead of the whole map")
	cmd.Flags().IntVar(&width, "width", 0, "frame width (defaults to the configured screen)")
	cmd.Flags().IntVar(&height, "height", 0, "frame height (defaults to the configured screen)")
	cmd.Flags().Float64Var(&advance, "at", 0, "trip progress in [0,1] to place the camera at")
	return cmd
}

func exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [project-path]",
		Short: "Export the scene as GeoJSON, 2D scene JSON or a scene graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "geojson", "output format: geojson, scene or graph")
	return cmd
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server serving frames and accepting drift",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runServe(args, port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP server port (default $PORT or 3000)")
	return cmd
}

func viewCmd() *cobra.Command {
	var tripSeconds float64

	cmd := &cobra.Command{
		Use:   "view [project-path]",
		Short: "Open a window and drive the configured trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runView(args[0], tripSeconds)
		},
	}

	cmd.Flags().Float64Var(&tripSeconds, "trip-seconds", 45, "duration of the full trip")
	return cmd
}
