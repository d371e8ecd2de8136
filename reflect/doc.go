// Package reflect reconstructs a queryable object graph — types,
// constants, variables, functions, and entry points — from a decoded
// SPIR-V module. It is the core of the library: package spirvreflect's
// reflection entry points are thin wrappers around Reflect.
//
// Reflect walks a module's instructions in their fixed logical order,
// populating a set of registries (one per concern: types, constants,
// variables, decorations, names, functions) and then projects one
// ir.EntryPoint per OpEntryPoint declaration by resolving which
// variables each entry point's call graph actually touches.
//
// This package never mutates the registries it is handed concurrently
// and never blocks; every exported entry point is a pure function of its
// input bytes and Options.
//
// # Usage
//
//	entryPoints, err := reflect.Reflect(data, reflect.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, ep := range entryPoints {
//		fmt.Println(ep.Name, ep.ExecModel)
//	}
//	if errs := reflect.Validate(entryPoints); len(errs) > 0 {
//		log.Fatal(errs[0])
//	}
//
// # References
//
//   - SPIR-V specification: https://www.khronos.org/registry/SPIR-V/
//   - spirq-rs (the reference reflection library this model is aligned
//     with): https://github.com/PENGUINLIONG/spirq-rs
package reflect
