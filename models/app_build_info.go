// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// UnknownBuildValue stands in for build metadata the linker did not set.
const UnknownBuildValue = "N/A"

// AppBuildInfo is the version, date and commit stamped into a binary with
// -ldflags. The server reports the version on /version and the client sends
// it as X-Client-Version.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{version: version, date: date, commit: commit}
}

// WithFallback returns a copy in which every empty value reads
// [UnknownBuildValue].
func (a AppBuildInfo) WithFallback() AppBuildInfo {
	return AppBuildInfo{
		version: orUnknown(a.version),
		date:    orUnknown(a.date),
		commit:  orUnknown(a.commit),
	}
}

// BuildVersion is empty for an unstamped build unless [AppBuildInfo.WithFallback]
// was applied.
func (a AppBuildInfo) BuildVersion() string { return a.version }
func (a AppBuildInfo) BuildDate() string    { return a.date }
func (a AppBuildInfo) BuildCommit() string  { return a.commit }

// String is the banner both binaries print on startup.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n",
		orUnknown(a.version), orUnknown(a.date), orUnknown(a.commit))
}

func orUnknown(v string) string {
	if v == "" {
		return UnknownBuildValue
	}
	return v
}
