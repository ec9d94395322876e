package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tfm-go/tfm/internal/app"
	"github.com/tfm-go/tfm/internal/applog"
	"github.com/tfm-go/tfm/internal/diffviewer"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		showHidden    bool
		showIdentical bool
		logLevel      string
	)

	diffCmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare two directory trees side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], showHidden, showIdentical, logLevel)
		},
	}
	diffCmd.Flags().BoolVar(&showHidden, "show-hidden", false, "include dotfiles and dot-directories")
	diffCmd.Flags().BoolVar(&showIdentical, "show-identical", false, "show rows classified as identical")
	diffCmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")

	root := &cobra.Command{
		Use:     "tfm",
		Short:   "Terminal directory diff viewer",
		Version: version,
	}
	root.AddCommand(diffCmd)
	return root
}

func runDiff(leftRoot, rightRoot string, showHidden, showIdentical bool, logLevel string) error {
	for _, p := range []string{leftRoot, rightRoot} {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", p)
		}
	}

	logger := applog.New(applog.Config{Level: applog.ParseLevel(logLevel)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	viewer := diffviewer.New(logger, leftRoot, rightRoot, showHidden)
	viewer.SetShowIdentical(showIdentical)

	if err := viewer.StartScan(ctx); err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}
	defer viewer.Shutdown()

	model := app.New(viewer, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
