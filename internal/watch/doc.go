// Package watch re-runs document generation when its input files change.
// It watches the directories holding the tags file and the global config
// file, debounces rapid events, and runs one generation at a time.
package watch
