// Package version holds the build version.
package version

// Version is overridden at build time with -ldflags "-X soarcalc/pkg/version.Version=...".
var Version = "dev"
