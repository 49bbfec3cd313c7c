//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the recipe module embedded at build
// time. It is printed by the CLI version subcommand.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It appears in help text and
	// names the configuration and cache directories.
	Name = "recipe"
	// Description is a short summary of the project used in help output.
	Description = "Recipe DSL transpiler"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
