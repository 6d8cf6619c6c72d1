// Package ir provides the typed intermediate representation for Quil-T programs.
//
// This package contains type definitions and pure conversions only. All other
// internal packages import ir; ir imports nothing internal, so it stays the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Expression, Parameter, Qubit and Instruction are sealed interfaces; only the
//     variants declared here implement them
//   - Every variant owns its payload; there is no generic envelope to downcast
//   - Parameter to Expression is lossless; Expression to Parameter canonicalizes numbers
//   - String() on every value renders Quil text that the parser reads back
package ir
