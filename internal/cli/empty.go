package cli

import (
	"fmt"
	"log/slog"

	"github.com/k1LoW/duration"

	"github.com/jedwillick/trash/internal/trash"
)

type emptyCommand struct {
	cli *CLI

	OlderThan   string `long:"older-than" description:"Only delete entries older than a duration (e.g. \"30 days\")" value-name:"DURATION"`
	Glob        string `long:"glob" description:"Only delete entries whose original path matches a glob" value-name:"PATTERN"`
	Interactive bool   `short:"i" long:"interactive" description:"Prompt before each deletion"`
	Verbose     bool   `short:"v" long:"verbose" description:"Print each deleted entry"`
}

func (cmd *emptyCommand) Execute(args []string) error {
	manager, err := cmd.cli.Manager()
	if err != nil {
		return err
	}

	filter := trash.EmptyFilter{Names: args, PathGlob: cmd.Glob}
	if cmd.Interactive {
		filter.Confirm = func(e *trash.Entry) bool {
			return confirm("permanently delete %s?", e.Name)
		}
	}
	if cmd.OlderThan != "" {
		d, err := duration.Parse(cmd.OlderThan)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", cmd.OlderThan, err)
		}
		filter.OlderThan = d
	}

	count, err := manager.Empty(filter)
	if cmd.Verbose || cmd.cli.config.Core.Verbose || err != nil {
		fmt.Printf("emptied %d entries\n", count)
	}
	slog.Debug("emptied", "count", count)

	if partial, ok := trash.AsPartial(err); ok {
		for _, f := range partial.Failures {
			fmt.Printf("failed: %s: %v\n", f.Name, f.Err)
		}
	}
	return err
}
