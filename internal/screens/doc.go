// Package screens defines the three screen Reactors: search, book detail and
// bookmark list. Each one is a reactor.Behavior plus a typed wrapper around
// the generic engine.
//
// Failures never escape a Reactor. They stop the loading indicator, leave the
// data untouched and are recorded in the state's Err field.
package screens
