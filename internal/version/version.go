// Package version exposes build information and a best-effort check for
// newer releases.
package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Version is the semantic version of the binary, set at build time with
// -ldflags.
var Version = "dev"

// latestReleaseURL serves the latest published release's metadata.
var latestReleaseURL = "https://api.github.com/repos/cvforge/cvforge/releases/latest"

// Get returns the binary's version, falling back to VCS build info.
func Get() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				return fmt.Sprintf("dev-%s", setting.Value[:7])
			}
		}
	}
	return "dev"
}

// Platform returns the os/arch pair the binary runs on.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

// CheckLatest fetches the latest released version number. It is
// best-effort: any failure, including the timeout, returns "" and never
// an error, so a slow or offline network cannot stall a render run.
func CheckLatest(timeout time.Duration) string {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(latestReleaseURL)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimPrefix(payload.TagName, "v")
}
