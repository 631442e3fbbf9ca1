// Package sink delivers expanded templates to their destination.
//
// Kinds:
//
//	omnifocus  open omnifocus://x-callback-url/paste with target and content
//	url        print the paste URL instead of opening it
//	file       write the text to <outbox>/<destination>/<timestamp>-<uuid>.taskpaper
//	stdout     print the expanded text
//
// Any sink can be wrapped with Confirming, which asks before delivering.
package sink
