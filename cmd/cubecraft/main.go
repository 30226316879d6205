package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"cubecraft/internal/config"
	"cubecraft/internal/savefile"

	"github.com/xlab/closer"
)

const usage = `usage: cubecraft [-config file] [-v] <command> [args]

commands:
  new [-seed s] <name>                   create a world
  list                                   list saved worlds
  delete <name>                          delete a world
  info <name>                            show a world's header and edits
  set <name> <x> <y> <z> <block>         edit one block
  preview [-radius n] [-scale n] [-o file] <name> [cx cz]
                                         render a top-down map to PNG
  walk [-script s] [-range n] <name>     play scripted frames headless
`

// env is shared by every command.
type env struct {
	settings config.Settings
	store    *savefile.Store
	logger   *log.Logger
}

var errUsage = errors.New("bad usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("cubecraft: ")
	defer closer.Close()

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		closer.Fatalln(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("cubecraft", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	configPath := fs.String("config", "", "settings file (default $"+config.EnvPath+")")
	verbose := fs.Bool("v", false, "log chunk generation")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *verbose {
		settings.Log.Verbose = true
	}
	e := &env{
		settings: settings,
		store:    savefile.NewStore(settings.Saves.Dir),
		logger:   log.Default(),
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "new":
		return e.cmdNew(rest)
	case "list":
		return e.cmdList(rest)
	case "delete":
		return e.cmdDelete(rest)
	case "info":
		return e.cmdInfo(rest)
	case "set":
		return e.cmdSet(rest)
	case "preview":
		return e.cmdPreview(rest)
	case "walk":
		return e.cmdWalk(rest)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}
