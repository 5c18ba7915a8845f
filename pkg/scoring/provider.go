//nolint:whitespace // can't make both editor and linter happy
package scoring

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/openregatta/regatta-service-manager-go/log"
)

// TemplateProvider hands out the current scoring template by name.
type TemplateProvider interface {
	Template(name string) (*Template, error)
}

// StaticProvider serves a fixed template set. Used in tests and for one-shot
// command invocations.
type StaticProvider struct {
	templates map[string]*Template
}

func NewStaticProvider(templates ...*Template) *StaticProvider {
	ret := &StaticProvider{templates: make(map[string]*Template)}
	for _, t := range templates {
		ret.templates[t.Name] = t
	}
	return ret
}

func (p *StaticProvider) Template(name string) (*Template, error) {
	t, ok := p.templates[name]
	if !ok {
		return nil, fmt.Errorf("no scoring template %q", name)
	}
	return t, nil
}

// FileProvider serves templates from one YAML file and reloads it when the
// file changes. A broken edit keeps the last good template in place.
type FileProvider struct {
	path    string
	l       *log.Logger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	current *Template
}

func NewFileProvider(path string, l *log.Logger) (*FileProvider, error) {
	tmpl, err := LoadTemplateFile(path)
	if err != nil {
		return nil, err
	}
	ret := &FileProvider{path: path, l: l, current: tmpl}
	ret.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := ret.watcher.Add(path); err != nil {
		ret.watcher.Close()
		return nil, err
	}
	go ret.watch()
	return ret, nil
}

func (p *FileProvider) Template(name string) (*Template, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current.Name != name {
		return nil, fmt.Errorf("no scoring template %q (file holds %q)",
			name, p.current.Name)
	}
	return p.current, nil
}

// Name returns the name of the currently loaded template.
func (p *FileProvider) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.Name
}

func (p *FileProvider) Close() error {
	return p.watcher.Close()
}

func (p *FileProvider) watch() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			tmpl, err := LoadTemplateFile(p.path)
			if err != nil {
				p.l.Warn("scoring template reload failed, keeping previous",
					log.ErrorField(err))
				continue
			}
			p.mu.Lock()
			p.current = tmpl
			p.mu.Unlock()
			p.l.Info("scoring template reloaded", log.String("name", tmpl.Name))
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.l.Warn("scoring template watcher", log.ErrorField(err))
		}
	}
}
