package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readPassword is replaced in tests, where stdin is not a terminal.
var readPassword = func(prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	defer fmt.Fprintln(prompt)
	return readSecretLine(os.Stdin)
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptNewPassword asks twice and fails when the answers differ.
func promptNewPassword(prompt io.Writer) (string, error) {
	first, err := readPassword(prompt, "Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if first == "" {
		return "", errors.New("password is required")
	}
	second, err := readPassword(prompt, "Repeat password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}
