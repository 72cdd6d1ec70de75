package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/morenodes/internal/presentation/tui"
	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/spf13/cobra"
)

type hsvOutput struct {
	Hex      string    `json:"hex"`
	RGB      []float64 `json:"rgb"`
	HSV      []float64 `json:"hsv"`
	Textbook []float64 `json:"textbook"`
}

var hsvCmd = &cobra.Command{
	Use:   "hsv (R G B | #RRGGBB)",
	Short: "Convert a color to HSV the way the RGBToHSV node does",
	Long: `Converts a color given as three channels in [0, 1] or as a hex code.
The node's hue is printed next to the textbook conversion, which differs for
every color that is not a gray or a pure red.`,
	Example: `  morenodes hsv 0 0 0.5
  morenodes hsv '#00ff00' --json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected R G B or a hex color, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rgb, err := parseColor(args)
		if err != nil {
			return err
		}
		hsv, err := colorspace.RGBToHSV(rgb.Values())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(hsvOutput{
				Hex:      rgb.Hex(),
				RGB:      rgb.Values(),
				HSV:      hsv.Values(),
				Textbook: colorspace.Textbook(rgb).Values(),
			})
		}

		tui.NewPrinter(cmd.OutOrStdout()).Swatch(rgb, hsv)
		return nil
	},
}

func parseColor(args []string) (colorspace.RGB, error) {
	if len(args) == 1 {
		return colorspace.ParseHex(args[0])
	}
	var ch [3]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return colorspace.RGB{}, fmt.Errorf("%w: channel %q is not a number", colorspace.ErrInvalidArgument, a)
		}
		ch[i] = v
	}
	return colorspace.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

func init() {
	rootCmd.AddCommand(hsvCmd)
	hsvCmd.Flags().Bool("json", false, "Print the conversion as JSON")
}
