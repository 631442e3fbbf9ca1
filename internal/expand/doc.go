// Package expand implements template variable expansion for TaskPaper-style
// text captured from the share sheet or the template library.
//
// A template is a block of lines. The first line (the title) carries a
// destination marker such as "Weekly Review<<inbox>>" naming where the
// expanded text is delivered. Any line may contain placeholders of the form
// ${NAME}.
//
// Expansion runs in fixed stages:
//
//	text -> Parse (marker pass, placeholder pass) -> Resolve -> Render -> Result
//
// Placeholders resolve in ascending name order. DATE, TIME, DAY and MONTH come
// from the configured clock, HERE from the Locator, and every other name from
// the Prompter. Resolution is strictly sequential so that only one prompt is
// ever visible, and any failure abandons the whole expansion: a Sink is only
// ever handed fully substituted text.
//
// Substitution is token based. Values are inserted verbatim and are never
// re-scanned, so a value containing "${...}" does not trigger a second
// substitution. Whether repeated placeholders on one line are all replaced or
// only the first one is controlled by Policy.
package expand
