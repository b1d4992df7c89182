package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glacier-launcher/glacier/internal/logger"
	"github.com/glacier-launcher/glacier/pkg/model"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	var (
		profile  string
		category string
		sha1Hex  string
	)

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Fetch a single resource into a profile",
		Long: `Fetch a single resource file into the matching category directory
of a profile. With --sha1 the download is verified and an already valid file
is left untouched; without it an existing file is trusted as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args[0], profile, category, sha1Hex)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "default", "Target profile name")
	cmd.Flags().StringVarP(&category, "category", "c", "mod", "Resource category (mod, datapack, shader, resourcepack)")
	cmd.Flags().StringVar(&sha1Hex, "sha1", "", "Expected SHA-1 digest of the resource")

	return cmd
}

func runFetch(cmd *cobra.Command, rawURL, profile, category, sha1Hex string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := model.ParseResourceCategory(category)
	if err != nil {
		return err
	}
	if sha1Hex == "" {
		logger.Warn("no digest given, an existing destination file will be trusted as-is")
	}

	orch := buildOrchestrator(cfg)
	out, err := orch.InstallResource(cmd.Context(), profile, cat, rawURL, sha1Hex)
	if err != nil {
		return fmt.Errorf("failed to fetch resource: %w", err)
	}

	if out.Skipped {
		fmt.Printf("Up to date: %s\n", out.Path)
	} else {
		fmt.Printf("Fetched %s (%d bytes)\n", out.Path, out.BytesTransferred)
	}
	return nil
}
