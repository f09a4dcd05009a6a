package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultPackageName = "./..."

var rootCmd = &cobra.Command{
	Use:   "fnwrap",
	Short: "fnwrap inserts code before and after the body of Go functions",
	Long:  "fnwrap inserts code before and after the body of Go functions marked with //fnwrap: directives or matched by configured rules, and writes the changes as a diff",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// newLogger builds the console logger used by every command.
func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = ""
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	cobra.CheckErr(err)
	return logger
}
