package cmd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/fnwrap/fnwrap/params"
	"github.com/fnwrap/fnwrap/rewriter"
	"github.com/spf13/cobra"
)

var funcName string

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "show how the parameters of a function are passed",
	Long:  "list the receiver and parameters of every function with the given name, and whether each one is passed by value or by reference",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(Params(cmd.OutOrStdout()))
	},
}

// Params prints the classified parameters of --func in the application at --path.
func Params(out io.Writer) error {
	if err := validatePackagePath(packagePath); err != nil {
		return err
	}
	if funcName == "" {
		return errors.New("--func is required")
	}

	pkgs, err := loadPackages(packagePath)
	if err != nil {
		return err
	}

	manager := rewriter.NewManager(pkgs, nil, "", packagePath, newLogger(debug))
	found := manager.Classify(funcName)
	if len(found) == 0 {
		return fmt.Errorf("function %s not found in %s", funcName, packagePath)
	}

	for _, name := range slices.Sorted(maps.Keys(found)) {
		printParameters(out, name, found[name])
	}
	return nil
}

func printParameters(out io.Writer, name string, parameters []params.Parameter) {
	fmt.Fprintln(out, name)
	if len(parameters) == 0 {
		fmt.Fprintln(out, "\tno parameters")
	}
	for _, p := range parameters {
		prefix := ""
		if p.Receiver {
			prefix = "receiver "
		}
		fmt.Fprintf(out, "\t%s%s\n", prefix, p)
	}
}

func init() {
	paramsCmd.Flags().StringVar(&packagePath, "path", defaultPackagePath, "specify package path")
	paramsCmd.Flags().StringVar(&funcName, "func", "", "function name, or Type.Method for methods")
	paramsCmd.Flags().BoolVar(&debug, "debug", defaultDebug, "enable debugging output")

	rootCmd.AddCommand(paramsCmd)
}
