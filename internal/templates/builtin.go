package templates

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed builtin/*.taskpaper
var builtinFS embed.FS

// Fallback is the built-in template used when expansion runs with no input.
const Fallback = "sample"

func loadBuiltin(name string) (*Template, error) {
	path := "builtin/" + name + Extension
	data, err := builtinFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading builtin template %s: %w", path, err)
	}
	return parseTemplate(name, string(data))
}

func listBuiltins() []Info {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), Extension)
		tmpl, err := loadBuiltin(name)
		if err != nil {
			continue
		}

		infos = append(infos, Info{
			Name:        name,
			Description: tmpl.Description,
			Source:      SourceBuiltin,
		})
	}

	return infos
}
