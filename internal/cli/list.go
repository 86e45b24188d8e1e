package cli

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/jedwillick/trash/internal/trash"
)

type listCommand struct {
	cli *CLI

	Verbose bool `short:"v" long:"verbose" description:"Include trash location and total size"`
}

func (cmd *listCommand) Execute(args []string) error {
	manager, err := cmd.cli.Manager()
	if err != nil {
		return err
	}

	entries, warnings, err := manager.List()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	entries, err = selectEntries(entries, args)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("trash is empty")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	headers := []string{"Name", "Original Path", "Deleted", "Size"}
	if cmd.Verbose {
		headers = append(headers, "Trash")
	}
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, e := range entries {
		original := e.OriginalPath
		deleted := humanize.Time(e.DeletedAt)
		if e.Unreadable {
			original = color.RedString("(metadata unreadable)")
			deleted = "-"
		}
		size := units.HumanSize(float64(e.Size))
		if e.IsDir {
			size += "+"
		}

		row := []string{e.Name, original, deleted, size}
		if cmd.Verbose {
			row = append(row, e.Dir.Root)
		}
		table.Append(row)
	}
	table.Render()

	if cmd.Verbose {
		total := lo.SumBy(entries, func(e *trash.Entry) int64 { return e.Size })
		fmt.Printf("\n%d entries, %s\n", len(entries), units.HumanSize(float64(total)))
	}

	return nil
}
