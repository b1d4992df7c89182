package install

import (
	"context"
	stderrors "errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/glacier-launcher/glacier/internal/logger"
	"github.com/glacier-launcher/glacier/pkg/archive"
	"github.com/glacier-launcher/glacier/pkg/download"
	"github.com/glacier-launcher/glacier/pkg/errors"
	"github.com/glacier-launcher/glacier/pkg/fsutil"
	"github.com/glacier-launcher/glacier/pkg/hashing"
	"github.com/glacier-launcher/glacier/pkg/hook"
	"github.com/glacier-launcher/glacier/pkg/layout"
	"github.com/glacier-launcher/glacier/pkg/manifest"
	"github.com/glacier-launcher/glacier/pkg/model"
	"github.com/glacier-launcher/glacier/pkg/progress"
)

// hooksDirName is the directory inside a pack archive holding tengo scripts.
const hooksDirName = "hooks"

// overridesDirName is the directory inside a pack archive whose tree is
// merged into the profile before any download starts.
const overridesDirName = "overrides"

// Orchestrator drives a full modpack installation run: staging the pack
// archive, scaffolding the profile, merging overrides, fetching files and
// dependencies and handing off to the base game installer. One orchestrator
// serves one run at a time.
type Orchestrator struct {
	Layout   *layout.Resolver
	Fetcher  Fetcher
	Deps     DependencyResolver
	Base     BaseInstaller
	Hooks    hook.Manager
	Archives *archive.Manager
	Ledger   *progress.Ledger
	Policy   Policy

	// Concurrency bounds the download worker pool; <=0 selects the fetcher
	// default.
	Concurrency int

	mu    sync.Mutex
	state State
}

// New constructs an Orchestrator from existing collaborators. Helper for
// wiring; fields may also be set directly.
func New(lay *layout.Resolver, fetcher Fetcher, deps DependencyResolver, base BaseInstaller, hooks hook.Manager, ledger *progress.Ledger) *Orchestrator {
	return &Orchestrator{
		Layout:   lay,
		Fetcher:  fetcher,
		Deps:     deps,
		Base:     base,
		Hooks:    hooks,
		Archives: archive.NewManager(),
		Ledger:   ledger,
		state:    StateIdle,
	}
}

// State returns the current run state. Safe for concurrent use with a
// running install.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == "" {
		return StateIdle
	}
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	logger.Debug("install state changed", logger.Fields{"state": string(s)})
}

// InstallModpack installs the pack archive at packPath into the named
// profile. On failure or cancellation a profile directory created by this
// run is removed again; a pre-existing profile is left in place. The staging
// directory is removed on every exit path.
func (o *Orchestrator) InstallModpack(ctx context.Context, packPath, profile string) (*Result, error) {
	if o.Layout == nil || o.Fetcher == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "layout resolver and fetcher are required")
	}

	runID := uuid.NewString()
	res := &Result{RunID: runID, Profile: profile, ProfileDir: o.Layout.ProfileDir(profile)}
	log := logger.Fields{"run_id": runID, "profile": profile}

	release, err := o.lockProfile(profile)
	if err != nil {
		return nil, err
	}
	defer release()

	if o.Ledger != nil {
		o.Ledger.Reset()
	}
	o.setState(StateIdle)

	if o.Archives == nil {
		o.Archives = archive.NewManager()
	}

	stageDir, err := os.MkdirTemp("", "glacier-stage-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create staging directory")
	}
	defer func() {
		if err := os.RemoveAll(stageDir); err != nil {
			logger.Warnf("failed to remove staging directory %s: %v", stageDir, err)
		}
	}()

	logger.Info("staging pack archive", log, logger.Fields{"pack": packPath})
	if err := o.Archives.ExtractAll(ctx, packPath, stageDir); err != nil {
		return res, o.fail(ctx, res, false, errors.Wrapf(errors.ErrPackArchive, "extracting %s: %v", packPath, err))
	}

	data, err := os.ReadFile(filepath.Join(stageDir, manifest.IndexFileName))
	if err != nil {
		return res, o.fail(ctx, res, false, errors.Wrapf(err, "pack archive has no readable %s", manifest.IndexFileName))
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return res, o.fail(ctx, res, false, err)
	}
	res.Pack = m.Name
	logger.Info("installing modpack", log, logger.Fields{
		"pack":    m.Name,
		"version": m.PackVersion,
		"game":    m.GameVersion,
		"loader":  string(m.Loader),
	})

	if o.Hooks != nil {
		if err := o.Hooks.LoadFromDir(filepath.Join(stageDir, hooksDirName)); err != nil {
			return res, o.fail(ctx, res, false, err)
		}
	}

	// Rollback must never delete a profile this run did not create.
	createdProfile := false
	if _, statErr := os.Stat(res.ProfileDir); os.IsNotExist(statErr) {
		createdProfile = true
	}

	o.setState(StateScaffoldingDirectories)
	if err := o.scaffold(res.ProfileDir); err != nil {
		return res, o.fail(ctx, res, createdProfile, err)
	}

	hookCtx := o.hookContext(profile, res.ProfileDir, m)
	if err := o.runHook(hook.PreInstall, hookCtx); err != nil {
		return res, o.fail(ctx, res, createdProfile, err)
	}

	o.setState(StateMergingOverrides)
	if err := o.mergeOverrides(ctx, filepath.Join(stageDir, overridesDirName), profile); err != nil {
		return res, o.fail(ctx, res, createdProfile, err)
	}

	o.setState(StateDownloadingFiles)
	if err := o.fetchFiles(ctx, m, profile, res); err != nil {
		return res, o.fail(ctx, res, createdProfile, err)
	}

	o.setState(StateInstallingDependencies)
	if err := o.installDependencies(ctx, m, profile, res); err != nil {
		return res, o.fail(ctx, res, createdProfile, err)
	}

	o.setState(StateInstallingBaseGame)
	if o.Base != nil {
		if err := o.Base.Install(ctx, m, res.ProfileDir, o.Ledger); err != nil {
			return res, o.fail(ctx, res, createdProfile, err)
		}
	} else {
		logger.Debug("no base installer configured, skipping base game phase", log)
	}

	// A broken post-install hook must not fail an otherwise complete run.
	if err := o.runHook(hook.PostInstall, hookCtx); err != nil {
		logger.Warnf("post-install hook failed: %v", err)
	}

	o.setState(StateCompleted)
	res.State = StateCompleted
	logger.Info("modpack installed", log, logger.Fields{
		"pack":       m.Name,
		"downloaded": res.Downloaded,
		"skipped":    res.Skipped,
	})
	return res, nil
}

// InstallResource fetches a single resource URL into the category directory
// of a profile. sha1Hex may be empty; without it an existing destination is
// trusted as-is.
func (o *Orchestrator) InstallResource(ctx context.Context, profile string, category model.ResourceCategory, rawURL, sha1Hex string) (download.Outcome, error) {
	if o.Layout == nil || o.Fetcher == nil {
		return download.Outcome{}, errors.Wrap(errors.ErrNotConfigured, "layout resolver and fetcher are required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return download.Outcome{}, errors.Wrapf(err, "invalid resource URL %q", rawURL)
	}
	fileName := path.Base(u.Path)
	if fileName == "." || fileName == "/" || fileName == "" {
		return download.Outcome{}, errors.Wrapf(errors.ErrInvalidPath, "cannot derive a file name from %q", rawURL)
	}

	dest, err := o.Layout.ResolvePath(category, profile, fileName)
	if err != nil {
		return download.Outcome{}, err
	}

	release, err := o.lockProfile(profile)
	if err != nil {
		return download.Outcome{}, err
	}
	defer release()

	req := download.Request{Name: fileName, URL: u, Dest: dest}
	if sha1Hex != "" {
		req.Hash = &download.ExpectedHash{Algorithm: hashing.DefaultAlgorithm, Hex: sha1Hex}
	}
	return o.Fetcher.Fetch(ctx, req)
}

// lockProfile takes the per-profile advisory lock. A held lock means another
// run is active against the same profile.
func (o *Orchestrator) lockProfile(profile string) (func(), error) {
	lockPath := o.Layout.ProfileDir(profile) + ".lock"
	if err := fsutil.EnsureFileDir(lockPath); err != nil {
		return nil, err
	}
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lock profile %s", profile)
	}
	if !locked {
		return nil, errors.Wrapf(errors.ErrRunActive, "profile %s", profile)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			logger.Warnf("failed to unlock profile %s: %v", profile, err)
		}
	}, nil
}

// scaffold creates the profile root and every category subdirectory.
func (o *Orchestrator) scaffold(profileDir string) error {
	if err := fsutil.EnsureDir(profileDir); err != nil {
		return err
	}
	for _, c := range model.AllCategories {
		if err := fsutil.EnsureDir(filepath.Join(profileDir, c.Dir())); err != nil {
			return err
		}
	}
	return nil
}

// mergeOverrides copies the pack's overrides tree into the profile. It runs
// before any download so pack-shipped files can be overwritten by verified
// downloads, not the other way around.
func (o *Orchestrator) mergeOverrides(ctx context.Context, overridesDir, profile string) error {
	if _, err := os.Stat(overridesDir); os.IsNotExist(err) {
		return nil
	}
	total, err := fsutil.CountFiles(overridesDir)
	if err != nil {
		return err
	}
	if o.Ledger != nil {
		o.Ledger.StartCategory(progress.CategoryOverrides, total)
		defer o.Ledger.FinishCategory(progress.CategoryOverrides)
	}
	if total == 0 {
		return nil
	}

	err = fsutil.WalkFiles(overridesDir, func(rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		dest, err := o.Layout.RelativePath(profile, rel)
		if err != nil {
			return err
		}
		if err := fsutil.EnsureFileDir(dest); err != nil {
			return err
		}
		if err := fsutil.Copy(filepath.Join(overridesDir, rel), dest); err != nil {
			return err
		}
		if o.Ledger != nil {
			o.Ledger.Advance(progress.CategoryOverrides, rel)
		}
		return nil
	})
	return err
}

// fetchFiles downloads every manifest file through the bounded worker pool.
func (o *Orchestrator) fetchFiles(ctx context.Context, m *model.Manifest, profile string, res *Result) error {
	reqs := make([]download.Request, 0, len(m.Files))
	for i := range m.Files {
		req, err := o.requestForFile(&m.Files[i], profile)
		if err != nil {
			return err
		}
		reqs = append(reqs, req)
	}

	if o.Ledger != nil {
		o.Ledger.StartCategory(progress.CategoryFiles, len(reqs))
		defer o.Ledger.FinishCategory(progress.CategoryFiles)
	}
	if len(reqs) == 0 {
		return nil
	}

	var mu sync.Mutex
	err := o.Fetcher.FetchAll(ctx, reqs, download.Options{
		Concurrency: o.Concurrency,
		OnComplete: func(req download.Request, out download.Outcome) {
			mu.Lock()
			if out.Skipped {
				res.Skipped++
			} else {
				res.Downloaded++
			}
			mu.Unlock()
			if o.Ledger != nil {
				o.Ledger.Advance(progress.CategoryFiles, req.Name)
			}
		},
		// A failed file still ticks the ledger so observers see where the
		// run stopped; the error itself aborts the run.
		OnError: func(req download.Request, _ error) {
			if o.Ledger != nil {
				o.Ledger.Advance(progress.CategoryFiles, req.Name)
			}
		},
	})
	return err
}

// requestForFile maps one manifest file onto a fetch request.
func (o *Orchestrator) requestForFile(f *model.ManifestFile, profile string) (download.Request, error) {
	if len(f.Downloads) == 0 {
		return download.Request{}, errors.Wrapf(errors.ErrManifestMissingField, "file %s has no download URL", f.Path)
	}
	u, err := url.Parse(f.Downloads[0])
	if err != nil {
		return download.Request{}, errors.Wrapf(err, "file %s has invalid download URL", f.Path)
	}
	dest, err := o.Layout.RelativePath(profile, f.Path)
	if err != nil {
		return download.Request{}, err
	}
	req := download.Request{Name: f.Path, URL: u, Dest: dest}
	if algo, hexDigest, ok := f.PreferredHash(); ok {
		req.Hash = &download.ExpectedHash{Algorithm: algo, Hex: hexDigest}
	}
	return req, nil
}

// installDependencies resolves declared project dependencies into files and
// fetches them one by one. Required failures abort the run; optional
// failures follow the policy.
func (o *Orchestrator) installDependencies(ctx context.Context, m *model.Manifest, profile string, res *Result) error {
	deps := m.RequiredDependencies()
	if o.Policy.InstallOptional {
		for _, d := range m.Dependencies {
			if d.Type == model.DependencyOptional {
				deps = append(deps, d)
			}
		}
	}

	if o.Ledger != nil {
		o.Ledger.StartCategory(progress.CategoryDependencies, len(deps))
		defer o.Ledger.FinishCategory(progress.CategoryDependencies)
	}
	if len(deps) == 0 {
		return nil
	}
	if o.Deps == nil {
		return errors.Wrap(errors.ErrNotConfigured, "pack declares dependencies but no dependency resolver is configured")
	}

	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := o.installDependency(ctx, dep, profile, res)
		// A failed item still ticks the ledger before the run aborts.
		if o.Ledger != nil {
			o.Ledger.Advance(progress.CategoryDependencies, dep.Name())
		}
		if err != nil {
			if dep.Type == model.DependencyOptional && o.Policy.ContinueOnOptional {
				logger.Warnf("optional dependency %s failed: %v", dep.Name(), err)
			} else {
				return err
			}
		}
	}
	return nil
}

func (o *Orchestrator) installDependency(ctx context.Context, dep model.Dependency, profile string, res *Result) error {
	file, err := o.Deps.Resolve(ctx, dep)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve dependency %s", dep.Name())
	}
	req, err := o.requestForFile(&file, profile)
	if err != nil {
		return err
	}
	out, err := o.Fetcher.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if out.Skipped {
		res.Skipped++
	} else {
		res.Downloaded++
	}
	return nil
}

func (o *Orchestrator) hookContext(profile, profileDir string, m *model.Manifest) hook.Context {
	return hook.Context{
		ProfileName:   profile,
		ProfilePath:   profileDir,
		PackName:      m.Name,
		PackVersion:   m.PackVersion,
		GameVersion:   m.GameVersion,
		Loader:        string(m.Loader),
		LoaderVersion: m.LoaderVersion,
	}
}

func (o *Orchestrator) runHook(t hook.Type, hookCtx hook.Context) error {
	if o.Hooks == nil || !o.Hooks.HasHook(t) {
		return nil
	}
	logger.Debugf("running %s hook", string(t))
	return o.Hooks.Execute(t, hookCtx)
}

// fail drives a run into its terminal failure state: it classifies the
// error, rolls back a profile directory this run created and returns the
// single terminal error of the run.
func (o *Orchestrator) fail(ctx context.Context, res *Result, removeProfile bool, runErr error) error {
	state := StateFailed
	cancelled := stderrors.Is(runErr, context.Canceled) ||
		stderrors.Is(runErr, errors.ErrCancelled) ||
		stderrors.Is(ctx.Err(), context.Canceled)
	if cancelled {
		state = StateCancelled
		if !stderrors.Is(runErr, errors.ErrCancelled) {
			runErr = errors.Wrapf(errors.ErrCancelled, "%v", runErr)
		}
	}
	o.setState(state)
	res.State = state

	if removeProfile {
		if err := os.RemoveAll(res.ProfileDir); err != nil {
			logger.Warnf("rollback failed to remove profile directory %s: %v", res.ProfileDir, err)
		} else {
			logger.Info("rolled back profile directory", logger.Fields{"run_id": res.RunID, "dir": res.ProfileDir})
		}
	}

	logger.Error("installation run ended", logger.Fields{
		"run_id": res.RunID,
		"state":  string(state),
		"error":  runErr.Error(),
	})
	return runErr
}
