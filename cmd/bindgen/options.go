package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bindgen/internal/config"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/layout"
)

// addOptionFlags registers the flags that override bindgen.toml values.
func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration file (default: nearest bindgen.toml)")
	cmd.Flags().Bool("layout-tests", true, "emit size, alignment and offset assertions")
	cmd.Flags().String("enum-style", "", "default enum style (consts|moduleconsts|rust|rust_non_exhaustive|newtype|newtype_global|bitfield)")
	cmd.Flags().String("dynamic-library", "", "route functions through a libloading struct with this name")
	cmd.Flags().Bool("wrap-static-fns", false, "emit C wrappers for functions with internal linkage")
	cmd.Flags().String("wrap-static-fns-path", "", "path of the C wrapper file")
	cmd.Flags().Bool("cxx-namespaces", false, "emit C++ namespaces as nested modules")
	cmd.Flags().String("target", "", "target triple used for layout decisions")
}

// loadOptions resolves the configuration file and applies flag overrides.
// Configuration problems are rendered as diagnostics before the error is
// returned.
func loadOptions(cmd *cobra.Command) (config.Options, string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Options{}, "", err
	}
	if path == "" {
		found, ok, findErr := config.Find(".")
		if findErr != nil {
			return config.Options{}, "", findErr
		}
		if ok {
			path = found
		}
	}

	opts := config.Default()
	if path != "" {
		opts, err = config.Load(path)
		if err != nil {
			color, _ := useColor(cmd, os.Stderr)
			if renderErr := diag.Render(cmd.ErrOrStderr(), config.Diagnostics(err), diag.RenderOptions{Color: color}); renderErr != nil {
				return config.Options{}, path, renderErr
			}
			return config.Options{}, path, fmt.Errorf("invalid configuration %s", path)
		}
	}

	if err := applyFlagOverrides(cmd, &opts); err != nil {
		return config.Options{}, path, err
	}
	return opts, path, nil
}

func applyFlagOverrides(cmd *cobra.Command, opts *config.Options) error {
	flags := cmd.Flags()
	if flags.Changed("layout-tests") {
		v, err := flags.GetBool("layout-tests")
		if err != nil {
			return err
		}
		opts.LayoutTests = v
	}
	if flags.Changed("enum-style") {
		v, err := flags.GetString("enum-style")
		if err != nil {
			return err
		}
		style, ok := ir.ParseEnumStyle(v)
		if !ok {
			return fmt.Errorf("invalid --enum-style value %q", v)
		}
		opts.DefaultEnumStyle = style
	}
	if flags.Changed("dynamic-library") {
		v, err := flags.GetString("dynamic-library")
		if err != nil {
			return err
		}
		opts.DynamicLibraryName = v
	}
	if flags.Changed("wrap-static-fns") {
		v, err := flags.GetBool("wrap-static-fns")
		if err != nil {
			return err
		}
		opts.WrapStaticFns = v
	}
	if flags.Changed("wrap-static-fns-path") {
		v, err := flags.GetString("wrap-static-fns-path")
		if err != nil {
			return err
		}
		opts.WrapStaticFnsPath = v
	}
	if flags.Changed("cxx-namespaces") {
		v, err := flags.GetBool("cxx-namespaces")
		if err != nil {
			return err
		}
		opts.EnableCxxNamespaces = v
	}
	if flags.Changed("target") {
		v, err := flags.GetString("target")
		if err != nil {
			return err
		}
		target, ok := layout.TargetByTriple(v)
		if !ok {
			return fmt.Errorf("unsupported --target %q", v)
		}
		opts.Target = target
	}
	return nil
}
