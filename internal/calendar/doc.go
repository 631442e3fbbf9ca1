// Package calendar turns upcoming calendar events into OmniFocus actions.
//
// Events are read from a YAML file, limited to a horizon from now, listed
// grouped by day, and converted into omnifocus:///add URLs. All-day events
// spanning several days become two actions, one for the start and one for
// the end.
package calendar
