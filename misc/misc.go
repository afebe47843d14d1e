// Package misc keeps program identity which is set at build time.
package misc

// Set by linker: -ldflags "-X chapterprep/misc.version=... -X chapterprep/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "chapterprep"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
