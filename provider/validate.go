/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package provider

import (
	"fmt"
	"math"
	"strings"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

const maxContainerNameLength = 255

// ValidateContainerName rejects empty names, names over 255 characters and
// names containing '/', '\', '?' or '#'.
func ValidateContainerName(name string) error {
	field := string(FacetContainerName)
	switch {
	case strings.TrimSpace(name) == "":
		return errors.NewValidationError(field, "must not be empty")
	case len(name) > maxContainerNameLength:
		return errors.NewValidationError(field, fmt.Sprintf("%q is longer than %d characters", name, maxContainerNameLength))
	case strings.ContainsAny(name, `/\?#`):
		return errors.NewValidationError(field, fmt.Sprintf("%q contains one of / \\ ? #", name))
	}
	return nil
}

// ValidatePath checks a JSON path such as "/customerId" or "/address/zip".
func ValidatePath(field, path string) error {
	if !strings.HasPrefix(path, "/") {
		return errors.NewValidationError(field, fmt.Sprintf("path %q must start with '/'", path))
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return errors.NewValidationError(field, fmt.Sprintf("path %q must not end with '/'", path))
	}
	for _, segment := range strings.Split(path[1:], "/") {
		if segment == "" {
			return errors.NewValidationError(field, fmt.Sprintf("path %q has an empty segment", path))
		}
	}
	return nil
}

// ValidateUniqueKeyPolicy checks every path and rejects empty or repeating
// unique keys.
func ValidateUniqueKeyPolicy(policy storagemodels.UniqueKeyPolicy) error {
	field := string(FacetUniqueKeyPolicy)
	for i, key := range policy.Keys {
		if len(key.Paths) == 0 {
			return errors.NewValidationError(field, fmt.Sprintf("unique key %d has no paths", i))
		}
		seen := make(map[string]bool, len(key.Paths))
		for _, path := range key.Paths {
			if err := ValidatePath(field, path); err != nil {
				return err
			}
			if seen[path] {
				return errors.NewValidationError(field, fmt.Sprintf("unique key %d repeats path %q", i, path))
			}
			seen[path] = true
		}
	}
	return nil
}

// MaxTimeToLive is the largest default time to live in seconds. Backends
// store it as a 32-bit integer.
const MaxTimeToLive = math.MaxInt32

// ValidateTimeToLive accepts 0 (off), -1 (no default expiry) or a positive
// number of seconds up to MaxTimeToLive.
func ValidateTimeToLive(seconds int) error {
	field := string(FacetTimeToLive)
	if seconds < -1 {
		return errors.NewValidationError(field, fmt.Sprintf("%d is not -1, 0 or a positive number of seconds", seconds))
	}
	if seconds > MaxTimeToLive {
		return errors.NewValidationError(field, fmt.Sprintf("%d exceeds the maximum of %d seconds", seconds, MaxTimeToLive))
	}
	return nil
}

const (
	minManualThroughput     = 400
	manualThroughputStep    = 100
	minAutoscaleThroughput  = 1000
	autoscaleThroughputStep = 1000
)

// ValidateThroughput enforces the provisioning limits: manual throughput of
// at least 400 in steps of 100, autoscale maxima of at least 1000 in steps
// of 1000, and no request units for serverless.
func ValidateThroughput(tp storagemodels.ThroughputSpec) error {
	field := string(FacetThroughput)
	switch tp.Mode {
	case storagemodels.ThroughputManual:
		if tp.RequestUnits < minManualThroughput || tp.RequestUnits%manualThroughputStep != 0 {
			return errors.NewValidationError(field, fmt.Sprintf("manual throughput %d must be at least %d and a multiple of %d",
				tp.RequestUnits, minManualThroughput, manualThroughputStep))
		}
	case storagemodels.ThroughputAutoscale:
		if tp.RequestUnits < minAutoscaleThroughput || tp.RequestUnits%autoscaleThroughputStep != 0 {
			return errors.NewValidationError(field, fmt.Sprintf("autoscale max throughput %d must be at least %d and a multiple of %d",
				tp.RequestUnits, minAutoscaleThroughput, autoscaleThroughputStep))
		}
	case storagemodels.ThroughputServerless:
		if tp.RequestUnits != 0 {
			return errors.NewValidationError(field, "serverless throughput takes no request units")
		}
	default:
		return errors.NewValidationError(field, fmt.Sprintf("unknown mode %s", tp.Mode))
	}
	return nil
}
