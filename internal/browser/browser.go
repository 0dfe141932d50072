// Package browser opens URLs in the system browser.
package browser

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsupported is returned on platforms without a known opener.
var ErrUnsupported = errors.New("no browser opener for this platform")

// ErrNotWeb is returned for URLs that are not http(s).
var ErrNotWeb = errors.New("not a web URL")

// command returns the opener for goos.
func command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	}
	return nil, ErrUnsupported
}

// Open starts the default browser on url without waiting for it.
func Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ErrNotWeb
	}
	cmd, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return cmd.Start()
}
