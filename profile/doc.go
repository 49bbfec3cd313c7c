// Package profile provides optional runtime profiling for the recipe
// command.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind the "pprof" build
// tag. Built without the tag, [Profiler.Start] is a no-op and [Modes]
// returns nothing.
//
// # Available Profiling Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles", Quiet: true}
//	defer p.Start().Stop()
//
// From the command line, build with the tag and select a mode:
//
//	go build -tags pprof -o recipe .
//	./recipe --pprof-mode cpu transpile big.recipe
//
// Profiles are written to $XDG_CACHE_HOME/recipe/pprof unless --pprof-dir is
// given, and can be inspected with:
//
//	go tool pprof -http=: ~/.cache/recipe/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
