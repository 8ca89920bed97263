// Package manifest is the build-time plugin table. Handler files register
// their record from init():
//
//	func init() {
//		manifest.Register(handler.NewCommand().SetSchema(schema).SetExecute(run))
//	}
//
// The module, category folder and file name are taken from the registering
// source file's path, .../<module>/<folder>/<file>.go, so the directory layout
// of internal/modules is the plugin layout. Blank-importing a category package
// from cmd/ is what enables it.
package manifest

import (
	"fmt"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"server-skeleton/internal/handler"
)

// Default is filled by module init() functions. It is only written during
// package initialization and only read once the client initializes.
var Default = New()

// Manifest maps module > folder > file to the records registered there.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]map[string]map[string][]handler.Record
}

func New() *Manifest {
	return &Manifest{entries: make(map[string]map[string]map[string][]handler.Record)}
}

// Register adds rec to Default under the caller's module, folder and file.
func Register(rec handler.Record) {
	module, folder, file := callerPath(2)
	Default.Add(module, folder, file, rec)
}

// RegisterFile is Register with an explicit file name, for lookup keys that
// cannot be Go file names (context menu names with spaces, for instance).
// The ".go" extension is added unless file already ends in it, so keys may
// contain dots.
func RegisterFile(file string, rec handler.Record) {
	module, folder, _ := callerPath(2)
	if !strings.HasSuffix(file, ".go") {
		file += ".go"
	}
	Default.Add(module, folder, file, rec)
}

// Add registers rec explicitly. It panics on a nil record or empty path
// element since both can only come from a programming error.
func (m *Manifest) Add(module, folder, file string, rec handler.Record) {
	if handler.IsNil(rec) {
		panic(fmt.Sprintf("manifest: nil record for %s/%s/%s", module, folder, file))
	}
	if module == "" || folder == "" || file == "" {
		panic(fmt.Sprintf("manifest: incomplete path %q/%q/%q", module, folder, file))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	folders, ok := m.entries[module]
	if !ok {
		folders = make(map[string]map[string][]handler.Record)
		m.entries[module] = folders
	}
	files, ok := folders[folder]
	if !ok {
		files = make(map[string][]handler.Record)
		folders[folder] = files
	}
	files[file] = append(files[file], rec)
}

// Modules lists registered modules.
func (m *Manifest) Modules() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.entries)
}

// Folders lists the folders of a module, recognized or not.
func (m *Manifest) Folders(module string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.entries[module])
}

// Files lists the files of a module folder.
func (m *Manifest) Files(module, folder string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.entries[module][folder])
}

// Load returns the single record registered by a file.
func (m *Manifest) Load(module, folder, file string) (handler.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.entries[module][folder][file]
	switch len(records) {
	case 0:
		return nil, fmt.Errorf("nothing registered by %s/%s/%s", module, folder, file)
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("%s/%s/%s registers %d handlers, expected one", module, folder, file, len(records))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// callerPath splits the source path of the function skip frames up into its
// last three elements. Runtime paths always use forward slashes.
func callerPath(skip int) (module, folder, file string) {
	_, src, _, ok := runtime.Caller(skip)
	if !ok {
		panic("manifest: cannot resolve caller")
	}
	dir, file := path.Split(src)
	dir = path.Clean(dir)
	folder = path.Base(dir)
	module = path.Base(path.Dir(dir))
	return module, folder, file
}
