package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/tack/internal/config"
	"github.com/gorewood/tack/internal/expand"
)

// Extension is the file suffix of template files.
const Extension = ".taskpaper"

// Source labels where a template was found.
const (
	SourceProject = "project"
	SourceGlobal  = "global"
	SourceBuiltin = "built-in"
)

// ErrNotFound is returned when no source has the requested template.
var ErrNotFound = errors.New("template not found")

var errNoDir = errors.New("no directory")

// Template is a named expansion template.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Destination is appended as a <<marker>> to the first line when the
	// content does not carry one.
	Destination string `yaml:"destination"`

	// Content is the template text after frontmatter.
	Content string `yaml:"-"`

	// Source is one of SourceProject, SourceGlobal or SourceBuiltin.
	Source string `yaml:"-"`
}

// Info describes a template for listing.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	Overrides   string `json:"overrides,omitempty"`
}

// Library looks templates up across project, global and built-in sources.
type Library struct {
	ProjectDir string
	GlobalDir  string
}

// NewLibrary returns a library using the default directories.
func NewLibrary() *Library {
	global := ""
	if dir := config.Dir(); dir != "" {
		global = filepath.Join(dir, "templates")
	}
	return &Library{
		ProjectDir: filepath.Join(".tack", "templates"),
		GlobalDir:  global,
	}
}

// Load finds a template by name. A template file that exists but cannot be
// read or parsed is an error rather than a miss.
func (l *Library) Load(name string) (*Template, error) {
	tmpl, err := loadFromPath(l.ProjectDir, name)
	switch {
	case err == nil:
		tmpl.Source = SourceProject
		return tmpl, nil
	case !isMissing(err):
		return nil, err
	}

	tmpl, err = loadFromPath(l.GlobalDir, name)
	switch {
	case err == nil:
		tmpl.Source = SourceGlobal
		return tmpl, nil
	case !isMissing(err):
		return nil, err
	}

	if tmpl, err := loadBuiltin(name); err == nil {
		tmpl.Source = SourceBuiltin
		return tmpl, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// List returns all templates. A project or global template shadowing a
// built-in of the same name is listed once, with Overrides set on the
// built-in entry that it hides.
func (l *Library) List() []Info {
	seen := make(map[string]string)
	var infos []Info

	sources := []struct {
		name string
		dir  string
	}{
		{SourceProject, l.ProjectDir},
		{SourceGlobal, l.GlobalDir},
	}

	for _, src := range sources {
		found, err := listFromPath(src.dir, src.name)
		if err != nil {
			continue
		}
		for _, info := range found {
			if _, exists := seen[info.Name]; !exists {
				seen[info.Name] = src.name
				infos = append(infos, info)
			}
		}
	}

	for _, info := range listBuiltins() {
		if by, exists := seen[info.Name]; exists {
			for i := range infos {
				if infos[i].Name == info.Name && infos[i].Source == by {
					infos[i].Overrides = SourceBuiltin
				}
			}
			continue
		}
		infos = append(infos, info)
	}

	return infos
}

func isMissing(err error) bool {
	return errors.Is(err, errNoDir) || errors.Is(err, fs.ErrNotExist)
}

func loadFromPath(dir, name string) (*Template, error) {
	if dir == "" {
		return nil, errNoDir
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid template name %q", name)
	}

	path := filepath.Join(dir, name+Extension)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	tmpl, err := parseTemplate(name, string(data))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return tmpl, nil
}

func listFromPath(dir, source string) ([]Info, error) {
	if dir == "" {
		return nil, errNoDir
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), Extension)
		tmpl, err := loadFromPath(dir, name)
		if err != nil {
			continue
		}

		infos = append(infos, Info{
			Name:        name,
			Description: tmpl.Description,
			Source:      source,
		})
	}

	return infos, nil
}

// parseTemplate splits frontmatter from content. Leading and trailing blank
// lines are dropped but indentation is kept, and the content always ends in
// a single newline.
func parseTemplate(name, raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	tmpl := Template{Name: name}
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	if tmpl.Name == "" {
		tmpl.Name = name
	}

	tmpl.Content = strings.Trim(content, "\r\n") + "\n"
	if tmpl.Destination != "" {
		title, rest, _ := strings.Cut(tmpl.Content, "\n")
		if _, _, ok := expand.ExtractDestination(title); !ok {
			tmpl.Content = title + "<<" + tmpl.Destination + ">>\n" + rest
		}
	}
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:]
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}

	// Drop the remainder of the closing delimiter line.
	if idx := strings.IndexByte(after, '\n'); idx >= 0 {
		after = after[idx+1:]
	} else {
		after = ""
	}
	return strings.TrimSpace(before), after
}
