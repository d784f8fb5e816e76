//go:build windows

package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// readSecretLine reads one line from the console with echo switched off and
// restores the previous console mode afterwards.
func readSecretLine(stdin *os.File) (string, error) {
	handle := windows.Handle(stdin.Fd())
	var saved uint32
	if err := windows.GetConsoleMode(handle, &saved); err != nil {
		return "", fmt.Errorf("stdin is not a console, pass --password instead: %w", err)
	}
	if err := windows.SetConsoleMode(handle, saved&^windows.ENABLE_ECHO_INPUT); err != nil {
		return "", fmt.Errorf("disable echo: %w", err)
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, saved)
	}()

	return readLine(stdin)
}
