// Package templates resolves named TaskPaper templates for expansion.
//
// Templates resolve in order:
//  1. .tack/templates/<name>.taskpaper (project-local)
//  2. <config dir>/templates/<name>.taskpaper (user global)
//  3. Built-in templates (embedded in binary)
//
// A template file may start with YAML frontmatter delimited by "---" lines
// carrying a name and description. Everything after the frontmatter is the
// template text handed to the expander.
package templates
