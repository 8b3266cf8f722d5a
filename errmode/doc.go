// Package errmode renders the failure-unwind statements of generated code.
//
// Type emitters never decide how to unwind; the caller chooses a Mode for the
// context the statements end up in (function body, switch case, callback
// lambda) and the emitter asks the Mode to render itself at every detected
// failure site.
package errmode
