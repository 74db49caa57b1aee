package prompts

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// ErrTemplateNotFound is returned when a store has no template by that name.
var ErrTemplateNotFound = errors.New("template not found")

// Store provides raw template text by name.
type Store interface {
	Template(name string) (string, error)
}

// FSStore reads "<name>.tmpl" from a file system.
type FSStore struct {
	fsys fs.FS
}

// Embedded returns the templates compiled into the binary.
func Embedded() *FSStore {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return &FSStore{fsys: sub}
}

// Dir returns a store reading templates from dir.
func Dir(dir string) *FSStore {
	return &FSStore{fsys: os.DirFS(dir)}
}

func (s *FSStore) Template(name string) (string, error) {
	data, err := fs.ReadFile(s.fsys, name+".tmpl")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(data), nil
}

// MapStore keeps templates in memory.
type MapStore map[string]string

func (m MapStore) Template(name string) (string, error) {
	tmpl, ok := m[name]
	if !ok || strings.TrimSpace(tmpl) == "" {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return tmpl, nil
}

// Layered consults each store in order and returns the first template found.
type Layered []Store

func (l Layered) Template(name string) (string, error) {
	for _, s := range l {
		tmpl, err := s.Template(name)
		if err == nil {
			return tmpl, nil
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}
