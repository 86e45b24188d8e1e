// Package debug exposes the structured debug log to the user.
package debug

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nxadm/tail"

	"github.com/jedwillick/trash/internal/env"
)

// Logs displays the debug log: the existing content, or a live follow.
func Logs(w io.Writer, enabled, live bool) error {
	if live {
		return tailLiveLogs(w, enabled)
	}
	return showExistingLogs(w, enabled)
}

func tailLiveLogs(w io.Writer, enabled bool) error {
	if !enabled {
		return fmt.Errorf("logging is not enabled in config: enable logging for live debugging")
	}

	shouldFollow := isatty.IsTerminal(os.Stdout.Fd())
	t, err := tail.TailFile(env.TRASH_LOG_PATH, tail.Config{
		ReOpen: shouldFollow,
		Follow: shouldFollow,
		Poll:   true,
		Logger: tail.DiscardingLogger,
		Location: &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekEnd,
		},
	})
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("log file does not exist: try running some commands first")
		}
		return err
	}

	for line := range t.Lines {
		fmt.Fprintln(w, line.Text)
	}

	return nil
}

func showExistingLogs(w io.Writer, enabled bool) error {
	if _, err := os.Stat(env.TRASH_LOG_PATH); os.IsNotExist(err) {
		if !enabled {
			return fmt.Errorf("logging is not enabled in config: enable logging to create log files")
		}
		return fmt.Errorf("no log file exists yet: try running some commands first")
	}

	f, err := os.Open(env.TRASH_LOG_PATH)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}

	return scanner.Err()
}
