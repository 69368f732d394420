// Package errors provides structured, actionable errors for the fiber
// runtime and its tooling.
//
// Every error carries a code (e.g. "E002") registered with a category, a
// short message and a documentation URL. Call sites add detail, a
// suggestion, a wrapped cause or a scene-file location.
//
// # Categories
//
//   - hook: hook misuse (called outside render, count or type drift)
//   - runtime: component panics, missing root
//   - host: host adapter faults during render or commit
//   - config, scene, snapshot, cli: tooling errors
//
// # Matching
//
// VangoError implements Is by code, so sentinels created with New can be
// matched with the standard library:
//
//	var ErrHookCountMismatch = errors.New("E002")
//
//	if stderrors.Is(err, ErrHookCountMismatch) { ... }
//
// # Usage
//
//	err := errors.New("E130").
//	    WithLocation("scenes/counter.yaml", 4, 7).
//	    WithSuggestion("Use one of tag, text or component")
//
//	fmt.Println(err.Format())
package errors
