// Package watch reports changes to scene files.
//
// The watcher is event driven through fsnotify. Events arriving within the
// debounce window are coalesced into one batch, keyed by path, so an
// editor's write-rename-chmod sequence is reported once.
package watch
