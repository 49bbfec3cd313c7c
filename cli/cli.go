package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/recipe/cli/cmd"
	"github.com/ardnew/recipe/lang"
	"github.com/ardnew/recipe/log"
	"github.com/ardnew/recipe/pkg"
)

// CLI is the top-level command-line interface for recipe.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	MaxDepth int `default:"${maxDepth}" help:"Maximum nesting depth of embedded recipes." name:"max-depth"`

	Transpile cmd.Transpile `cmd:"" default:"withargs" help:"Transpile a recipe into cooking instructions (default)."`
	Check     cmd.Check     `cmd:""                    help:"Parse recipes and report syntax errors."`
	Fmt       cmd.Fmt       `cmd:""                    help:"Format a recipe."`
	Query     cmd.Query     `cmd:""                    help:"Evaluate an expression against a recipe."`
	Repl      cmd.Repl      `cmd:""                    help:"Start the interactive transpiler."`
	Init      cmd.Init      `cmd:""                    help:"Initialize configuration file."`
	Version   cmd.Version   `cmd:""                    help:"Print version."`
}

// Run executes the recipe CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolveYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithParseOptions(ctx,
		lang.WithMaxDepth(cli.MaxDepth),
		lang.WithLogger(log.Default()),
	)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run()
}
