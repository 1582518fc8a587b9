package tray

import (
	"fmt"
	"log"
	"net"
	"os/exec"
	"runtime"
)

// SettingsURL returns the dashboard URL for a server listening on addr.
// Wildcard and empty hosts are reached through localhost.
func SettingsURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// browserCommand returns the command that opens url on goos.
func browserCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform %s", goos)
	}
}

// OpenBrowser opens url in the default browser without waiting for it.
func OpenBrowser(url string) {
	name, args, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		log.Printf("Failed to open browser: %v", err)
		return
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
