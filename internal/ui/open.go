package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openInBrowser launches the platform's URL handler for link. The
// command is detached; errors cover launch failure only.
func openInBrowser(link string) error {
	if link == "" {
		return fmt.Errorf("entry has no link")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", link)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		cmd = exec.Command("xdg-open", link)
	}
	return cmd.Start()
}
