// Command coordconv converts coordinates between decimal degrees and
// degrees/minutes/seconds from the shell.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/core/usecases"
	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

type options struct {
	reject bool
	json   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "coordconv",
		Short:        "Convert coordinates between DD and DMS",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.reject, "reject-out-of-range", false, "fail on minutes/seconds >= 60 and |lat| > 90, |lon| > 180")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of text")

	root.AddCommand(newDMS2DDCmd(opts), newDD2DMSCmd(opts), newNormalizeCmd(opts))
	return root
}

func (o *options) converter() *usecases.ConverterService {
	if o.reject {
		return usecases.NewConverterService(domain.RangeReject)
	}
	return usecases.NewConverterService(domain.RangeAccept)
}

func newDMS2DDCmd(opts *options) *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:     "dms2dd DEGREES [MINUTES [SECONDS]]",
		Short:   "Convert degrees, minutes and seconds to signed decimal degrees",
		Example: "  coordconv dms2dd 48 51 27 --dir N",
		Args:    cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]float64, 3)
			for i, raw := range args {
				v, err := parseArg(dmsArgNames[i], raw)
				if err != nil {
					return err
				}
				values[i] = v
			}

			dd, err := opts.converter().ToDD(values[0], values[1], values[2], direction)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, map[string]any{"dd": dd, "formatted": geospatial.FormatDD(dd)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), geospatial.FormatDD(dd))
			return nil
		},
	}
	cmd.Flags().StringVarP(&direction, "dir", "d", "N", "direction letter: N, S, E or W")
	return cmd
}

func newDD2DMSCmd(opts *options) *cobra.Command {
	var axis string
	cmd := &cobra.Command{
		Use:   "dd2dms DD",
		Short: "Convert signed decimal degrees to degrees, minutes and seconds",
		Example: "  coordconv dd2dms 48.8575\n" +
			"  coordconv dd2dms --axis lon -- -74.2973",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dd, err := parseArg("dd", args[0])
			if err != nil {
				return err
			}
			dms, err := opts.converter().ToDMS(dd, axis)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, struct {
					geospatial.DMS
					Formatted string `json:"formatted"`
				}{dms, dms.String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), dms.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&axis, "axis", "a", "lat", "lat or lon")
	return cmd
}

func newNormalizeCmd(opts *options) *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:     "normalize VALUE",
		Short:   "Apply a direction letter's sign to a value",
		Example: "  coordconv normalize 33.8688 --dir S",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseArg("value", args[0])
			if err != nil {
				return err
			}
			out, err := opts.converter().Normalize(v, direction)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, map[string]any{"value": out})
			}
			fmt.Fprintln(cmd.OutOrStdout(), geospatial.FormatDD(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&direction, "dir", "d", "", "direction letter: N, S, E or W")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

var dmsArgNames = [3]string{"degrees", "minutes", "seconds"}

func parseArg(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Value: raw, Err: domain.ErrParse}
	}
	return v, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
