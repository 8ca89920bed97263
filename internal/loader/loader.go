// Package loader walks a module source and registers every handler it finds.
package loader

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"server-skeleton/internal/handler"
	"server-skeleton/internal/logging"
	"server-skeleton/internal/registry"
)

// Extension is the only handler file extension loaded.
const Extension = ".go"

// Source lists modules, their category folders and files, and loads the
// record a file declares. manifest.Manifest is the production Source.
type Source interface {
	Modules() []string
	Folders(module string) []string
	Files(module, folder string) []string
	Load(module, folder, file string) (handler.Record, error)
}

// Summary counts the outcome of a load.
type Summary struct {
	Modules int
	Loaded  int
	Skipped int
}

// Loader registers the handlers of a Source into a Registry.
type Loader struct {
	src Source
	reg *registry.Registry
	log logging.Logger
}

func New(src Source, reg *registry.Registry, log logging.Logger) *Loader {
	return &Loader{src: src, reg: reg, log: log}
}

// Load visits modules and files in lexicographic order and category folders
// in handler.Categories order, strictly sequentially. A file that cannot be
// registered is logged and skipped; Load itself never fails.
func (l *Loader) Load() Summary {
	var sum Summary

	modules := sorted(l.src.Modules())
	l.log.Verbose("Loading modules")
	for mi, module := range modules {
		l.log.Verbose(fmt.Sprintf("Loading %s (%d/%d)", module, mi+1, len(modules)))

		folders := l.recognizedFolders(module)
		for fi, f := range folders {
			label := fmt.Sprintf("%s > %s", module, f.category)
			l.log.Verbose(fmt.Sprintf("Loading %s (%d/%d)", label, fi+1, len(folders)))

			files := handlerFiles(l.src.Files(module, f.name))
			for i, file := range files {
				fileLabel := fmt.Sprintf("%s > %s", label, file)
				l.log.Verbose(fmt.Sprintf("Loading %s (%d/%d)", fileLabel, i+1, len(files)))

				if err := l.loadFile(module, f, file); err != nil {
					l.log.Warn(fmt.Sprintf("Error loading %s: %v; skipping", fileLabel, err))
					sum.Skipped++
					continue
				}
				sum.Loaded++
				l.log.Verbose(fmt.Sprintf("Loaded %s", fileLabel))
			}
			l.log.Verbose(fmt.Sprintf("Loaded %s", label))
		}
		sum.Modules++
		l.log.Verbose(fmt.Sprintf("Loaded %s", module))
	}
	l.log.Verbose("Loaded modules")

	return sum
}

type folder struct {
	name     string
	category handler.Category
}

// recognizedFolders returns the module's category folders in the fixed
// category order. Unknown folders are ignored.
func (l *Loader) recognizedFolders(module string) []folder {
	present := make(map[handler.Category]string)
	for _, name := range l.src.Folders(module) {
		if c, ok := handler.ParseFolder(name); ok {
			if _, dup := present[c]; !dup {
				present[c] = name
			}
		}
	}

	var folders []folder
	for _, c := range handler.Categories {
		if name, ok := present[c]; ok {
			folders = append(folders, folder{name: name, category: c})
		}
	}
	return folders
}

func (l *Loader) loadFile(module string, f folder, file string) error {
	rec, err := l.src.Load(module, f.name, file)
	if err != nil {
		return err
	}
	if handler.IsNil(rec) {
		return fmt.Errorf("no handler declared")
	}
	if rec.Category() != f.category {
		return fmt.Errorf("%s handler found in %s folder", rec.Category(), f.category)
	}
	if !rec.Validate() {
		return fmt.Errorf("%s handler is invalid", rec.Category())
	}

	key := Key(file)

	switch {
	case rec.IsEventHandler():
		l.reg.AddEvent(key, rec.(*handler.Event))
		return nil
	case rec.IsMessageCommandHandler():
		return l.reg.AddMessageCommand(key, rec.(*handler.MessageCommand))
	default:
		return l.reg.AddInteraction(key, rec)
	}
}

// Key is the lookup key of a handler file: its name without extension.
func Key(file string) string {
	return strings.TrimSuffix(file, path.Ext(file))
}

func handlerFiles(files []string) []string {
	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, Extension) && !strings.HasSuffix(f, "_test.go") {
			out = append(out, f)
		}
	}
	return sorted(out)
}

func sorted(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	sort.Strings(out)
	return out
}
