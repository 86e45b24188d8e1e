package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedwillick/trash/internal/trash"
)

type restoreCommand struct {
	cli *CLI

	Force       bool `short:"f" long:"force" description:"Overwrite an existing file at the original path"`
	Rename      bool `long:"rename" description:"Restore under a suffixed name if the original path exists"`
	Interactive bool `short:"i" long:"interactive" description:"Prompt before overwriting an existing file"`
	Verbose     bool `short:"v" long:"verbose" description:"Print each restored file"`
}

func (cmd *restoreCommand) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("no files to restore")
	}
	exclusive := 0
	for _, set := range []bool{cmd.Force, cmd.Rename, cmd.Interactive} {
		if set {
			exclusive++
		}
	}
	if exclusive > 1 {
		return errors.New("--force, --rename and --interactive are mutually exclusive")
	}

	manager, err := cmd.cli.Manager()
	if err != nil {
		return err
	}

	entries, warnings, err := manager.List()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	selected, err := selectEntries(entries, args)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return errors.New("no matching files in trash")
	}

	policy := trash.ConflictAbort
	switch {
	case cmd.Force:
		policy = trash.ConflictOverwrite
	case cmd.Rename:
		policy = trash.ConflictRename
	}

	var errs []error
	for _, entry := range selected {
		policy := policy
		if cmd.Interactive && !entry.Unreadable {
			if _, err := os.Lstat(entry.OriginalPath); err == nil {
				if !confirm("overwrite %s?", entry.OriginalPath) {
					continue
				}
				policy = trash.ConflictOverwrite
			}
		}
		if err := manager.Restore(entry, policy); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", entry.Name, err))
			continue
		}
		if cmd.Verbose || cmd.cli.config.Core.Verbose {
			fmt.Printf("restored %s to %s\n", entry.Name, entry.OriginalPath)
		}
		slog.Debug("restored", "entry", entry.Name, "to", entry.OriginalPath)
	}
	return formatErrors(errs)
}
