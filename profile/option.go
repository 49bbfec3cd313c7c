//go:build pprof

package profile

import "github.com/pkg/profile"

// option appends pkg/profile options derived from a Profiler field.
type option func([]func(*profile.Profile)) []func(*profile.Profile)

func apply(opts ...option) []func(*profile.Profile) {
	var fns []func(*profile.Profile)

	for _, opt := range opts {
		fns = opt(fns)
	}

	return fns
}

func withMode(m string) option {
	return func(fns []func(*profile.Profile)) []func(*profile.Profile) {
		if fn, ok := mode[m]; ok {
			fns = append(fns, fn)
		}

		return fns
	}
}

func withPath(p string) option {
	return func(fns []func(*profile.Profile)) []func(*profile.Profile) {
		if p != "" {
			fns = append(fns, profile.ProfilePath(p))
		}

		return fns
	}
}

func withQuiet(v bool) option {
	return func(fns []func(*profile.Profile)) []func(*profile.Profile) {
		if v {
			fns = append(fns, profile.Quiet)
		}

		return fns
	}
}
