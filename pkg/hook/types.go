// Package hook executes optional pack-authored Tengo scripts around an
// installation. Scripts live in the pack's hooks/ directory and receive the
// install context as script variables.
package hook

// Type identifies when a hook runs.
type Type string

// Supported hook types.
const (
	PreInstall  Type = "pre-install"
	PostInstall Type = "post-install"
)

// ScriptExtension is the file extension of hook scripts.
const ScriptExtension = ".tengo"

// Context contains information passed to hook scripts.
type Context struct {
	ProfileName   string
	ProfilePath   string
	PackName      string
	PackVersion   string
	GameVersion   string
	Loader        string
	LoaderVersion string
	Vars          map[string]interface{}
}

// Manager defines the interface for loading and running install hooks.
type Manager interface {
	// LoadFromDir registers scripts found in a hooks directory. A missing
	// directory is not an error; packs without hooks are the common case.
	LoadFromDir(dir string) error

	// Execute runs the script registered for the hook type, if any.
	Execute(hookType Type, ctx Context) error

	// HasHook reports whether a script is registered for the hook type.
	HasHook(hookType Type) bool
}
