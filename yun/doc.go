// Package yun implements the Yun scripting language: a small dynamically
// typed language with closures, single-inheritance classes, lists and
// dictionaries, used to drive a live-reloading host. The package covers
//   - Scanning source text into tokens and parsing them into an AST.
//   - A static resolver that computes the scope distance of every local
//     reference ahead of execution.
//   - A tree-walking evaluator with cooperative cancellation, native
//     functions supplied by the host and an outbound event channel.
//   - A Runner that re-executes a script whenever its source changes.
//
// Comments use `//` and `/* */`. Statements end with `;`.
package yun
