package launcher

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPlace is used when no postcode maps to a known place.
const DefaultPlace = "Out"

// Rule maps matching contexts to a list of shortcuts.
type Rule struct {
	Title string `yaml:"title" json:"title"`
	// Match is an unanchored regular expression applied to the context key.
	Match string `yaml:"match" json:"match"`
	// When is an optional CEL expression over place, day_type, day, ampm,
	// hour_type and hour that must evaluate to true.
	When      string   `yaml:"when,omitempty" json:"when,omitempty"`
	Shortcuts []string `yaml:"shortcuts" json:"shortcuts"`
}

// Config holds launcher rules and place lookup.
type Config struct {
	// Place overrides place detection.
	Place string `yaml:"place" env:"TACK_PLACE"`
	// Postcode is looked up in Contexts by its first space-separated token.
	Postcode     string            `yaml:"postcode" env:"TACK_POSTCODE"`
	DefaultPlace string            `yaml:"default_place"`
	Contexts     map[string]string `yaml:"contexts"`
	Rules        []Rule            `yaml:"rules"`
}

// DefaultConfig returns the built-in rules ending in a catch-all.
func DefaultConfig() Config {
	return Config{
		DefaultPlace: DefaultPlace,
		Contexts:     map[string]string{},
		Rules: []Rule{
			{
				Title:     "Before Work",
				Match:     `Home,Weekday,.*,.*,(Early|Morning),.*`,
				Shortcuts: []string{"Take Coat"},
			},
			{
				Title:     "Friday",
				Match:     `.*,.*,Fri,.*,.*,.*`,
				Shortcuts: []string{"Take Coat2"},
			},
			{
				Title:     "Default",
				Match:     `.*`,
				Shortcuts: []string{"Fall Through"},
			},
		},
	}
}

// Validate checks that every rule has a title and a pattern.
// Patterns and expressions are compiled by New.
func (c Config) Validate() error {
	var errs []error
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Title) == "" {
			errs = append(errs, fmt.Errorf("launcher.rules[%d]: title is required", i))
		}
		if r.Match == "" && r.When == "" {
			errs = append(errs, fmt.Errorf("launcher.rules[%d] (%s): match or when is required", i, r.Title))
		}
	}
	return errors.Join(errs...)
}

// ResolvePlace picks the place: an explicit place, then the context mapped
// from the postcode's first token, then the default place.
func (c Config) ResolvePlace(place, postcode string) string {
	if place = strings.TrimSpace(place); place != "" {
		return place
	}
	if place = strings.TrimSpace(c.Place); place != "" {
		return place
	}
	if postcode == "" {
		postcode = c.Postcode
	}
	if fields := strings.Fields(postcode); len(fields) > 0 {
		if mapped, ok := c.Contexts[strings.ToUpper(fields[0])]; ok {
			return mapped
		}
		if mapped, ok := c.Contexts[fields[0]]; ok {
			return mapped
		}
	}
	if c.DefaultPlace != "" {
		return c.DefaultPlace
	}
	return DefaultPlace
}
