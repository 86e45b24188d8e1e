package cli

import "fmt"

// confirm asks a y/N question on stdout and reads one word from stdin.
// Anything but an explicit yes declines.
func confirm(format string, args ...any) bool {
	fmt.Printf(format+" (y/N): ", args...)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y"
}
