/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package itemstore

import (
	"runtime"
	"runtime/debug"
	"sort"
)

// Set at build time with -ldflags "-X github.com/suparena/itemstore.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// backendModules are the SDK modules behind each container backend.
var backendModules = map[string]string{
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos": "cosmos",
	"github.com/aws/aws-sdk-go-v2/service/dynamodb":       "dynamodb",
}

// BackendSDK names the SDK module linked for a backend.
type BackendSDK struct {
	Backend string `json:"backend" yaml:"backend"`
	Module  string `json:"module" yaml:"module"`
	Version string `json:"version" yaml:"version"`
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string       `json:"version" yaml:"version"`
	GitCommit string       `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string       `json:"buildDate" yaml:"buildDate"`
	GoVersion string       `json:"goVersion" yaml:"goVersion"`
	Module    string       `json:"module,omitempty" yaml:"module,omitempty"`
	Backends  []BackendSDK `json:"backends,omitempty" yaml:"backends,omitempty"`
}

// GetVersionInfo returns the build flags plus what the Go build info
// records about the main module and the backend SDKs.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Module = bi.Main.Path
		info.Backends = backendSDKs(bi.Deps)
	}
	return info
}

// backendSDKs picks the backend SDKs out of deps, sorted by backend.
func backendSDKs(deps []*debug.Module) []BackendSDK {
	var sdks []BackendSDK
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		backend, ok := backendModules[dep.Path]
		if !ok {
			continue
		}
		mod := dep
		if dep.Replace != nil {
			mod = dep.Replace
		}
		sdks = append(sdks, BackendSDK{Backend: backend, Module: dep.Path, Version: mod.Version})
	}
	sort.Slice(sdks, func(i, j int) bool { return sdks[i].Backend < sdks[j].Backend })
	return sdks
}
