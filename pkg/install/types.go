//go:generate mockgen -destination=./mocks/install.go -package=mocks . Fetcher,DependencyResolver,BaseInstaller

// Package install ties the manifest interpreter, destination resolver,
// fetcher and progress ledger together into one installation run.
package install

import (
	"context"

	"github.com/glacier-launcher/glacier/pkg/download"
	"github.com/glacier-launcher/glacier/pkg/model"
	"github.com/glacier-launcher/glacier/pkg/progress"
)

// State identifies where an installation run currently is. Runs move strictly
// forward; Cancelled and Failed are terminal alongside Completed.
type State string

// Installation run states.
const (
	StateIdle                   State = "idle"
	StateScaffoldingDirectories State = "scaffolding-directories"
	StateMergingOverrides       State = "merging-overrides"
	StateDownloadingFiles       State = "downloading-files"
	StateInstallingDependencies State = "installing-dependencies"
	StateInstallingBaseGame     State = "installing-base-game"
	StateCompleted              State = "completed"
	StateCancelled              State = "cancelled"
	StateFailed                 State = "failed"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Fetcher is the subset of the download manager used by the orchestrator.
type Fetcher interface {
	Fetch(ctx context.Context, req download.Request) (download.Outcome, error)
	FetchAll(ctx context.Context, reqs []download.Request, opts download.Options) error
}

// DependencyResolver turns a declared pack dependency into a fetchable file.
// Implementations typically query a remote project index.
type DependencyResolver interface {
	Resolve(ctx context.Context, dep model.Dependency) (model.ManifestFile, error)
}

// BaseInstaller installs the platform pieces a profile needs besides the
// pack content: the core runtime, shared resources and the mod loader. It
// reports through the core, resources and loader ledger categories.
type BaseInstaller interface {
	Install(ctx context.Context, m *model.Manifest, profileDir string, ledger *progress.Ledger) error
}

// Policy controls how a run treats optional pack dependencies. Required
// items always abort the run on first failure.
type Policy struct {
	// InstallOptional includes dependencies declared optional in the run.
	InstallOptional bool
	// ContinueOnOptional turns an optional dependency failure into a logged
	// warning instead of a run failure.
	ContinueOnOptional bool
}

// Result summarizes a finished installation run.
type Result struct {
	RunID      string
	State      State
	Profile    string
	ProfileDir string
	Pack       string
	Downloaded int
	Skipped    int
}
