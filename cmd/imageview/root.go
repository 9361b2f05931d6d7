package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

var (
	outputFile   string
	outputFormat string
	verbose      bool

	output io.Writer
	cache  *typeimage.Cache
)

var rootCmd = &cobra.Command{
	Use:   "imageview",
	Short: "Type image viewer and checker",
	Long: `imageview is a command-line tool for inspecting the type images
built for a catalog of well-known Go types.

It can list the fields, properties, indexers, methods and constructors
an image exposes, look members up by name and exercise their getters.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case formatText, formatYAML:
		default:
			return fmt.Errorf("unknown output format: %s", outputFormat)
		}

		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		cache = typeimage.NewCache(typeimage.WithLogger(logger))
		return registerDemo(cache)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", formatText, "output format (text, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log image builds and invoker generation to stderr")

	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
