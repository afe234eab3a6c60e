package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maauso/trailerforge/internal/bootstrap"
	"github.com/maauso/trailerforge/internal/pipeline"
	"github.com/maauso/trailerforge/internal/presenter"
)

// errGenerationFailed is returned after the failure notice has been printed.
var errGenerationFailed = errors.New("generation failed")

func newGenerateCmd() *cobra.Command {
	var exportResult bool

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate a trailer for an image or PDF and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], exportResult)
		},
	}
	cmd.Flags().BoolVarP(&exportResult, "export", "e", false, "save the trailer to the export storage")
	return cmd
}

func runGenerate(cmd *cobra.Command, path string, exportResult bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := bootstrap.NewDependencies(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	artifact, err := pipeline.LoadArtifact(path)
	if err != nil {
		return err
	}

	ctrl := deps.Controller
	ctrl.SelectArtifact(artifact)

	submitErr := ctrl.Submit(cmd.Context())
	if errors.Is(submitErr, pipeline.ErrSubmitUnavailable) {
		return fmt.Errorf("%s: %w", path, submitErr)
	}

	snap := ctrl.Snapshot()
	out := cmd.OutOrStdout()
	if err := presenter.WriteText(out, deps.Presenter.Render(snap)); err != nil {
		return err
	}
	if submitErr != nil {
		return errGenerationFailed
	}

	if exportResult {
		location, err := deps.Exporter.Export(cmd.Context(), snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nExported to %s\n", location)
	}
	return nil
}
