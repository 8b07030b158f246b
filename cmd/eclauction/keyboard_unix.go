//go:build linux || darwin
// +build linux darwin

package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ashwinpillai/eclauction/internal/browser"
	"github.com/ashwinpillai/eclauction/internal/logger"
)

// listenForKeyboard listens for keyboard input and performs actions.
// The terminal is switched to raw mode so single keypresses register
// without Enter; output uses \r\n while raw mode is active.
func listenForKeyboard(consoleURL string, appLog *logger.SlogLogger) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Not a terminal (piped stdin, CI), silently skip shortcuts
		return
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			continue
		}

		input := strings.ToLower(string(buf[0]))
		switch input {
		case "o":
			fmt.Printf("%sOpening auction console in browser...%s\r\n", cyan, reset)
			if err := browser.Open(consoleURL); err != nil {
				fmt.Printf("%sError opening browser: %v%s\r\n", red, err, reset)
			}
		case "h":
			if appLog.IsHTTPLoggingEnabled() {
				appLog.DisableHTTPLogging()
				fmt.Printf("%sHTTP logging disabled%s\r\n", yellow, reset)
			} else {
				appLog.EnableHTTPLogging()
				fmt.Printf("%sHTTP logging enabled%s\r\n", green, reset)
			}
		case "l":
			cycleLogLevel(appLog)
		case "q", "\x03":
			fmt.Printf("%sShutting down server...%s\r\n", yellow, reset)
			term.Restore(fd, oldState)
			os.Exit(0)
		case "?":
			printKeyboardHelp()
		}
	}
}
