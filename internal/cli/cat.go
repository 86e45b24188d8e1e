package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type catCommand struct {
	cli *CLI

	Recursive bool `short:"r" long:"recursive" description:"Walk directories, printing each file"`
}

func (cmd *catCommand) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("no files to cat")
	}

	manager, err := cmd.cli.Manager()
	if err != nil {
		return err
	}

	entries, _, err := manager.List()
	if err != nil {
		return err
	}

	selected, err := selectEntries(entries, args)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return errors.New("no matching files in trash")
	}

	var errs []error
	for _, entry := range selected {
		if entry.IsDir {
			if !cmd.Recursive {
				errs = append(errs, fmt.Errorf("%s: is a directory", entry.Name))
				continue
			}
			if err := catDir(entry.PayloadPath()); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", entry.Name, err))
			}
			continue
		}

		r, err := manager.Open(entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = io.Copy(os.Stdout, r)
		r.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name, err))
		}
	}
	return formatErrors(errs)
}

func catDir(dir string) error {
	items, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, item := range items {
		path := filepath.Join(dir, item.Name())
		if item.IsDir() {
			if err := catDir(path); err != nil {
				return err
			}
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(os.Stdout, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
