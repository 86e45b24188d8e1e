// Package cli wires the trash core to the command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"

	"github.com/jedwillick/trash/internal/config"
	"github.com/jedwillick/trash/internal/debug"
	"github.com/jedwillick/trash/internal/env"
	"github.com/jedwillick/trash/internal/trash"
)

// Option holds the global flags shared by every command
type Option struct {
	Config string `long:"config" description:"Path to config file" default:""`
	Debug  string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string

	managerOnce sync.Once
	managerErr  error
	manager     *trash.Manager
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

// Run parses the command line and dispatches to the matching command.
func Run(v Version) error {
	c := &CLI{version: v, runID: runID()}

	parser := flags.NewNamedParser(v.AppName, flags.Default)
	parser.LongDescription = "Send items to the trash instead of the void.\n" +
		"The default trash location is $XDG_DATA_HOME/Trash, falling back to ~/.local/share/Trash."
	parser.SubcommandsOptional = true

	if _, err := parser.AddGroup("Application Options", "", &c.option); err != nil {
		return err
	}

	for _, reg := range []struct {
		name, short, long string
		aliases           []string
		cmd               flags.Commander
	}{
		{"remove", "Move files to the trash", "Move files or directories into the trash with enough metadata to restore them later.", []string{"rm", "delete", "del"}, &removeCommand{cli: c}},
		{"list", "List trashed files", "List trash entries. Positional arguments are globs matched against entry names.", []string{"ls"}, &listCommand{cli: c}},
		{"restore", "Restore trashed files", "Restore entries to their original locations. Positional arguments are globs matched against entry names.", []string{"rest"}, &restoreCommand{cli: c}},
		{"empty", "Permanently delete trashed files", "Permanently delete entries, optionally filtered by age, path glob, or name.", []string{"clean", "void"}, &emptyCommand{cli: c}},
		{"cat", "Print trashed file contents", "Stream the contents of trashed files to standard output.", nil, &catCommand{cli: c}},
		{"prune", "Clean up orphaned metadata", "List or delete metadata records whose payload is gone.", nil, &pruneCommand{cli: c}},
		{"version", "Show version", "Show version information.", nil, &versionCommand{cli: c}},
	} {
		cmd, err := parser.AddCommand(reg.name, reg.short, reg.long, reg.cmd)
		if err != nil {
			return err
		}
		cmd.Aliases = reg.aliases
	}

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			return nil
		}
		if err := c.init(); err != nil {
			return err
		}
		slog.Debug("command started", "args", args)
		defer slog.Debug("command finished")
		return command.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	if parser.Active == nil {
		if err := c.init(); err != nil {
			return err
		}
		switch c.option.Debug {
		case "live":
			return debug.Logs(os.Stdout, c.config.Core.Logging.Enabled, true)
		case "full":
			return debug.Logs(os.Stdout, c.config.Core.Logging.Enabled, false)
		}
		parser.WriteHelp(os.Stdout)
	}

	return nil
}

// init loads config and points slog at the debug log file. The trash
// manager itself is created lazily, so commands that never touch the
// trash do not create directories as a side effect.
func (c *CLI) init() error {
	cfg, err := config.Parse(c.option.Config)
	if err != nil {
		return err
	}
	c.config = cfg

	var w io.Writer = io.Discard
	if cfg.Core.Logging.Enabled {
		logDir := filepath.Dir(env.TRASH_LOG_PATH)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
		if file, err := os.OpenFile(env.TRASH_LOG_PATH, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			w = file
		} else {
			w = os.Stderr
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           log.DebugLevel,
	})
	logger = logger.With("run_id", c.runID)
	slog.SetDefault(slog.New(logger))

	slog.Debug("cli initialized", "version", c.version.Version)
	return nil
}

// Manager returns the lazily constructed trash manager
func (c *CLI) Manager() (*trash.Manager, error) {
	c.managerOnce.Do(func() {
		c.manager, c.managerErr = trash.NewManager(trash.Config{
			HomeTrashDir: c.config.Core.TrashDir,
			Listing:      c.config.Listing,
		})
	})
	return c.manager, c.managerErr
}

// printWarnings reports enumeration warnings (orphans and the like) on
// stderr without failing the command.
func printWarnings(warnings []trash.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("warning:"), w)
	}
}

func formatErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d errors occurred:", len(errs))
	for _, err := range errs {
		msg += fmt.Sprintf("\n  * %v", err)
	}
	return fmt.Errorf("%s", msg)
}
