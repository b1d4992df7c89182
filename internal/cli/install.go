package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glacier-launcher/glacier/pkg/install"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		profile            string
		concurrency        int
		withOptional       bool
		continueOnOptional bool
	)

	cmd := &cobra.Command{
		Use:   "install PACK",
		Short: "Install a modpack archive into a profile",
		Long: `Install a modpack archive into a profile.
The archive must contain an index.json manifest; its overrides tree is merged
into the profile and every listed file is downloaded and verified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], profile, concurrency, install.Policy{
				InstallOptional:    withOptional,
				ContinueOnOptional: continueOnOptional,
			})
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "default", "Target profile name")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel downloads (0=config default)")
	cmd.Flags().BoolVar(&withOptional, "with-optional", false, "Also install optional dependencies")
	cmd.Flags().BoolVar(&continueOnOptional, "continue-on-optional", false, "Treat optional dependency failures as warnings")

	return cmd
}

func runInstall(cmd *cobra.Command, packPath, profile string, concurrency int, policy install.Policy) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	orch := buildOrchestrator(cfg)
	orch.Policy = policy
	if concurrency > 0 {
		orch.Concurrency = concurrency
	}

	done := make(chan struct{})
	go watchProgress(orch.Ledger.Subscribe(), done)

	res, err := orch.InstallModpack(cmd.Context(), packPath, profile)
	close(done)
	if err != nil {
		return fmt.Errorf("failed to install modpack: %w", err)
	}

	fmt.Printf("Installed %s into profile %s (%d downloaded, %d up to date)\n",
		res.Pack, res.Profile, res.Downloaded, res.Skipped)
	return nil
}
