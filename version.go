// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package main

import "fmt"

const (
	// SemVer is the semantic version of ircwire.
	SemVer = "0.1.0-unreleased"
)

var (
	// Ver is the full version string, shown by --version and in the startup log.
	Ver = fmt.Sprintf("ircwire-%s", SemVer)
)

// set via linker flags, either by make or by goreleaser:
var commit = ""  // git hash
var version = "" // tagged version

func setVersionString(version, commit string) {
	if version != "" {
		Ver = fmt.Sprintf("ircwire-%s", version)
	} else if len(commit) == 40 {
		Ver = fmt.Sprintf("ircwire-%s-%s", SemVer, commit[:16])
	}
}
