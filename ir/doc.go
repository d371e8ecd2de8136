// Package ir defines the reconstructed object graph produced by reflection.
//
// The graph is a plain, shader-agnostic data model: types, constants,
// variables, functions and entry points recovered from a SPIR-V binary. It
// carries no behavior of its own beyond the handful of registries used to
// build it up in declaration order; the reflection engine in package
// reflect owns all reconstruction logic.
//
// # Structure
//
// Types, Constants, Variables and Functions are held in per-kind
// registries keyed by their SPIR-V result-id (TypeId, ConstantId,
// VariableId, FunctionId). An EntryPoint is the final, fully independent
// projection handed back to callers: its Vars slice owns its own copies of
// every Type reached from it, so it outlives the registries used to build
// it.
//
// # References
//
//   - SPIR-V specification: https://www.khronos.org/registry/SPIR-V/
//   - spirq-rs (the reference reflection library this model is aligned
//     with): https://github.com/PENGUINLIONG/spirq-rs
package ir
