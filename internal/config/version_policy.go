package config

import (
	"slices"
	"strings"
)

// CurrentConfigVersion is the newest configVersion this build understands.
const CurrentConfigVersion = "1"

// SupportedConfigVersions lists every configVersion this build accepts.
var SupportedConfigVersions = []string{CurrentConfigVersion}

// IsSupportedConfigVersion reports whether v can be loaded.
func IsSupportedConfigVersion(v string) bool {
	return slices.Contains(SupportedConfigVersions, v)
}

// SupportedConfigVersionsCSV renders the supported versions for error messages.
func SupportedConfigVersionsCSV() string {
	return strings.Join(SupportedConfigVersions, ", ")
}
