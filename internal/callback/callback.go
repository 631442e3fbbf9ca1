// Package callback builds x-callback-url style URLs for apps that accept
// URL-scheme automation, such as OmniFocus and Shortcuts.
package callback

import (
	"net/url"
	"strings"
)

// Well-known endpoints.
const (
	OmniFocusPaste = "omnifocus://x-callback-url/paste"
	OmniFocusAdd   = "omnifocus:///add"
	ShortcutsRun   = "shortcuts://run-shortcut"
)

type param struct {
	key   string
	value string
}

// URL is a callback URL whose query parameters keep insertion order.
type URL struct {
	base   string
	params []param
}

// New starts a URL for the given scheme endpoint.
func New(base string) *URL {
	return &URL{base: base}
}

// Add appends a query parameter and returns the URL for chaining.
func (u *URL) Add(key, value string) *URL {
	u.params = append(u.params, param{key: key, value: value})
	return u
}

// Get returns the first value for key.
func (u *URL) Get(key string) (string, bool) {
	for _, p := range u.params {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// String renders the URL. Keys and values are percent-encoded with spaces
// as %20, which URL-scheme handlers decode reliably where "+" is not.
func (u *URL) String() string {
	if len(u.params) == 0 {
		return u.base
	}

	var b strings.Builder
	b.WriteString(u.base)
	if strings.Contains(u.base, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	for i, p := range u.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(p.key))
		b.WriteByte('=')
		b.WriteString(Escape(p.value))
	}
	return b.String()
}

// Escape percent-encodes a query component, encoding spaces as %20.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Paste returns the OmniFocus URL that pastes TaskPaper text into target,
// where target is a project or folder name, "inbox" or "projects".
func Paste(target, taskpaper string) *URL {
	return New(OmniFocusPaste).Add("target", target).Add("content", taskpaper)
}

// RunShortcut returns the Shortcuts URL that runs the named shortcut.
func RunShortcut(name string) *URL {
	return New(ShortcutsRun).Add("name", name)
}
