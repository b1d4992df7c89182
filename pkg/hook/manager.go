package hook

import (
	"os"
	"path/filepath"

	"github.com/glacier-launcher/glacier/pkg/errors"
)

// DefaultManager is the default implementation of Manager.
type DefaultManager struct {
	executor *TengoExecutor
}

var _ Manager = (*DefaultManager)(nil)

// NewManager creates a new hook manager.
func NewManager() *DefaultManager {
	return &DefaultManager{executor: NewTengoExecutor()}
}

// LoadFromDir registers scripts found in dir, e.g. hooks/pre-install.tengo.
func (m *DefaultManager) LoadFromDir(dir string) error {
	for _, hookType := range []Type{PreInstall, PostInstall} {
		path := filepath.Join(dir, string(hookType)+ScriptExtension)
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, "failed to load hook %s", path)
		}
		m.executor.AddScript(hookType, string(content))
	}
	return nil
}

// Execute runs the script registered for the hook type with the given
// context.
func (m *DefaultManager) Execute(hookType Type, ctx Context) error {
	if !m.HasHook(hookType) {
		return nil
	}
	ctxCopy := ctx
	if ctxCopy.Vars == nil {
		ctxCopy.Vars = make(map[string]interface{})
	}
	return m.executor.Execute(hookType, ctxCopy)
}

// HasHook checks if a script is registered for the hook type.
func (m *DefaultManager) HasHook(hookType Type) bool {
	return m.executor.HasScript(hookType)
}
