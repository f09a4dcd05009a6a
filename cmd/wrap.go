package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dave/dst/decorator"
	"github.com/fnwrap/fnwrap/internal/comment"
	"github.com/fnwrap/fnwrap/internal/config"
	"github.com/fnwrap/fnwrap/rewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

const (
	defaultPackagePath    = ""
	defaultConfigPath     = ""
	defaultOutputFilePath = ""
	defaultDiffFileName   = "fnwrap.diff"
	defaultDebug          = false
	defaultAnnotate       = false
)

var (
	debug        bool
	annotate     bool
	packagePath  string
	configPath   string
	diffFile     string
	wrapperIdent string
	resultIdent  string
)

var wrapCmd = &cobra.Command{
	Use:   "wrap",
	Short: "wrap functions",
	Long:  "insert pre and post code into the functions of an application and write the changes to a diff file",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(Wrap(cmd))
	},
}

// validateOutputFile checks that the custom output path is valid
func validateOutputFile(path string) error {
	if filepath.Ext(path) != ".diff" {
		return errors.New("output file must have a .diff extension")
	}

	_, err := os.Stat(filepath.Dir(path))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("output file directory does not exist: %v", err)
	}

	return nil
}

// setOutputFilePath returns a complete output file path based on the provided
// diffFile flag value. If the flag is empty, the diff is written to the application path.
func setOutputFilePath(outputFilePath, applicationPath string) (string, error) {
	if outputFilePath == "" {
		outputFilePath = filepath.Join(applicationPath, defaultDiffFileName)
	}

	err := validateOutputFile(outputFilePath)
	if err != nil {
		return "", err
	}

	return outputFilePath, nil
}

func validatePackagePath(path string) error {
	if path == "" {
		return errors.New("--path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("--path \"%s\" is invalid: %v", path, err)
	}
	return nil
}

// loadConfig reads the config file if one was given and applies the flags that were set on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("wrapper") {
		cfg.Wrapper = wrapperIdent
	}
	if flags.Changed("result") {
		cfg.Result = resultIdent
	}
	if flags.Changed("annotate") {
		cfg.Annotate = annotate
	}

	return cfg, cfg.Validate()
}

func loadPackages(path string) ([]*decorator.Package, error) {
	pkgs, err := decorator.Load(&packages.Config{Dir: path, Mode: packages.LoadSyntax}, defaultPackageName)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load %s: %w", path, errors.Join(errs...))
	}
	return pkgs, nil
}

// Wrap rewrites the application at --path and writes the diff.
func Wrap(cmd *cobra.Command) error {
	if err := validatePackagePath(packagePath); err != nil {
		return err
	}

	outputFile, err := setOutputFilePath(diffFile, packagePath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(debug)
	defer func() { _ = logger.Sync() }()

	comment.EnableConsolePrinter(packagePath, logger)
	defer comment.WriteAll()

	pkgs, err := loadPackages(packagePath)
	if err != nil {
		return err
	}
	logger.Debug("loaded packages", zap.Int("count", len(pkgs)), zap.String("path", packagePath))

	manager := rewriter.NewManager(pkgs, cfg, outputFile, packagePath, logger)
	if err := manager.CreateDiffFile(); err != nil {
		return err
	}

	if err := manager.WrapApplication(); err != nil {
		return err
	}

	if err := manager.WriteDiff(); err != nil {
		return err
	}

	logger.Info("wrapped functions", zap.Strings("functions", manager.Wrapped()))
	return nil
}

func init() {
	wrapCmd.Flags().BoolVar(&debug, "debug", defaultDebug, "enable debugging output")
	wrapCmd.Flags().BoolVar(&annotate, "annotate", defaultAnnotate, "add a comment above every wrapped function")
	wrapCmd.Flags().StringVar(&packagePath, "path", defaultPackagePath, "specify package path")
	wrapCmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "specify a YAML or TOML config file")
	wrapCmd.Flags().StringVar(&diffFile, "diff", defaultOutputFilePath, "specify diff output file path")
	wrapCmd.Flags().StringVar(&wrapperIdent, "wrapper", config.DefaultWrapperIdent, "name of the closure that holds the original function body")
	wrapCmd.Flags().StringVar(&resultIdent, "result", config.DefaultResultIdent, "name of the variable that holds the original return value")
	cobra.MarkFlagFilename(wrapCmd.Flags(), "diff", ".diff") // for file completion
	cobra.MarkFlagFilename(wrapCmd.Flags(), "config", ".yaml", ".yml", ".toml")

	rootCmd.AddCommand(wrapCmd)
}
