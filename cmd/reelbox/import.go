package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/app"
	"github.com/vmunix/reelbox/internal/format"
	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/picker"
)

var importCmd = &cobra.Command{
	Use:   "import <file>... | -",
	Short: "Import video files into the library",
	Long: `Copies video files into the managed library and records their metadata.

Pass "-" to read a single video from standard input; --name sets its file name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("name", "", "File name for a video read from stdin")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && args[0] == "-" {
		name, _ := cmd.Flags().GetString("name")
		return importStream(cmd, name)
	}

	return withApp(cmd, func(a *app.App) error {
		pending := make([]<-chan library.ImportResult, len(args))
		for i, path := range args {
			src, ok, err := picker.PathSource{Path: path}.Pick(cmd.Context())
			if err == nil && !ok {
				err = library.ErrNothingPicked
			}
			if err != nil {
				ch := make(chan library.ImportResult, 1)
				ch <- library.ImportResult{Err: &library.ImportError{Path: path, Op: library.OpPick, Err: err}}
				close(ch)
				pending[i] = ch
				continue
			}
			pending[i] = a.Library.ImportAsync(cmd.Context(), src)
		}

		failed := 0
		for _, ch := range pending {
			res := <-ch
			if res.Err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed: %v\n", res.Err)
				continue
			}
			printImported(cmd, res.Video)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d imports failed", failed, len(args))
		}
		return nil
	})
}

func importStream(cmd *cobra.Command, name string) error {
	source := &picker.StreamSource{Reader: cmd.InOrStdin(), Name: name}
	defer func() { _ = source.Close() }()

	return withApp(cmd, func(a *app.App) error {
		v, err := a.Library.ImportFrom(cmd.Context(), source)
		if errors.Is(err, library.ErrNothingPicked) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
			return nil
		}
		if err != nil {
			return err
		}
		printImported(cmd, v)
		return nil
	})
}

func printImported(cmd *cobra.Command, v *library.Video) {
	if jsonOutput {
		_ = printJSON(cmd.OutOrStdout(), toView(v))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s (%s, %s)\n",
		v.Title, shortID(v), format.Duration(v.DurationSeconds), format.FileSize(v.SizeBytes))
}
