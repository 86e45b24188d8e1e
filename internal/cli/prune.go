package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/jedwillick/trash/internal/trash"
)

type pruneCommand struct {
	cli *CLI

	Yes bool `short:"y" long:"yes" description:"Delete without listing only"`
}

// Execute handles `prune orphans`: metadata records whose payload is gone
// and payloads that lost their record are listed, and deleted only when
// --yes is given. Orphans are never removed implicitly by any other
// command.
func (cmd *pruneCommand) Execute(args []string) error {
	if len(args) != 1 || args[0] != "orphans" {
		return errors.New("prune requires an argument (e.g., orphans)")
	}

	manager, err := cmd.cli.Manager()
	if err != nil {
		return err
	}

	orphans, err := manager.Orphans()
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		fmt.Println("no orphaned metadata found")
		return nil
	}

	for _, o := range orphans {
		detail := "(unreadable)"
		switch {
		case o.Kind == trash.OrphanPayload:
			detail = fmt.Sprintf("payload without metadata, %s", humanize.Bytes(uint64(o.Size)))
		case o.OriginalPath != "":
			detail = fmt.Sprintf("%s, deleted %s", o.OriginalPath, humanize.Time(o.DeletedAt))
		}
		fmt.Printf("%s %s %s\n", color.YellowString("orphan:"), o.Path, detail)
	}

	if !cmd.Yes {
		fmt.Printf("\n%d orphaned records found; rerun with --yes to delete them\n", len(orphans))
		return nil
	}

	var errs []error
	var removed int
	for _, o := range orphans {
		if err := manager.RemoveOrphan(o); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Path, err))
			continue
		}
		removed++
		slog.Debug("pruned orphan", "kind", o.Kind.String(), "path", o.Path)
	}

	fmt.Printf("pruned %d orphaned records\n", removed)
	return formatErrors(errs)
}
