package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedwillick/trash/internal/trash"
)

type removeCommand struct {
	cli *CLI

	Force       bool `short:"f" long:"force" description:"Ignore nonexistent files"`
	Recursive   bool `short:"r" long:"recursive" description:"Allow removing directories"`
	Interactive bool `short:"i" long:"interactive" description:"Prompt before each removal"`
	Verbose     bool `short:"v" long:"verbose" description:"Print each removed file"`

	// same as -r, rm compatibility
	Recursive2 bool `short:"R" hidden:"yes"`
}

func (cmd *removeCommand) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	manager, err := cmd.cli.Manager()
	if err != nil {
		return err
	}

	var errs []error
	for _, arg := range args {
		if err := cmd.removePath(manager, arg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", arg, err))
		}
	}
	return formatErrors(errs)
}

func (cmd *removeCommand) removePath(manager *trash.Manager, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if cmd.Force {
				return nil
			}
			return trash.ErrNotFound
		}
		return err
	}

	if err := validatePath(path); err != nil {
		return err
	}

	if info.IsDir() && !cmd.recursive() {
		return errors.New("is a directory")
	}

	if cmd.Interactive && !confirm("trash %s?", path) {
		return nil
	}

	entry, err := manager.Put(path)
	if err != nil {
		return err
	}

	if cmd.verbose() {
		kind := "file"
		if entry.IsDir {
			kind = "directory"
		}
		fmt.Printf("trashed %s: %s\n", kind, path)
	}
	slog.Debug("removed", "path", path, "entry", entry.Name)
	return nil
}

func (cmd *removeCommand) recursive() bool {
	return cmd.Recursive || cmd.Recursive2
}

func (cmd *removeCommand) verbose() bool {
	return cmd.Verbose || cmd.cli.config.Core.Verbose
}
