package system

// Version is the semantic version of the build, overridden at build
// time via -ldflags.
var Version = "0.0.0-dev"

// Commit is the git revision of the build, overridden at build time.
var Commit = ""
