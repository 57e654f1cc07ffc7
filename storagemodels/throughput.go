/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "fmt"

// ThroughputMode selects how a container is billed for request capacity.
type ThroughputMode int

const (
	// ThroughputManual is a fixed provisioned throughput.
	ThroughputManual ThroughputMode = iota
	// ThroughputAutoscale scales between 10% and the configured maximum.
	ThroughputAutoscale
	// ThroughputServerless carries no dedicated container throughput.
	ThroughputServerless
)

// String returns the lower-case mode name used in configuration files.
func (m ThroughputMode) String() string {
	switch m {
	case ThroughputManual:
		return "manual"
	case ThroughputAutoscale:
		return "autoscale"
	case ThroughputServerless:
		return "serverless"
	default:
		return fmt.Sprintf("ThroughputMode(%d)", int(m))
	}
}

// ParseThroughputMode parses the names produced by ThroughputMode.String.
func ParseThroughputMode(s string) (ThroughputMode, error) {
	switch s {
	case "", "manual":
		return ThroughputManual, nil
	case "autoscale":
		return ThroughputAutoscale, nil
	case "serverless":
		return ThroughputServerless, nil
	}
	return 0, fmt.Errorf("unknown throughput mode %q", s)
}

// DefaultRequestUnits is the manual throughput used when none is declared.
const DefaultRequestUnits int32 = 400

// ThroughputSpec is either a manual provisioned throughput, an autoscale
// maximum, or serverless.
type ThroughputSpec struct {
	Mode ThroughputMode
	// RequestUnits is the provisioned RU/s for manual throughput or the
	// maximum RU/s for autoscale. It is zero for serverless.
	RequestUnits int32
}

// ManualThroughput returns a fixed throughput of ru request units per second.
func ManualThroughput(ru int32) ThroughputSpec {
	return ThroughputSpec{Mode: ThroughputManual, RequestUnits: ru}
}

// AutoscaleThroughput returns an autoscale throughput with the given maximum.
func AutoscaleThroughput(maxRU int32) ThroughputSpec {
	return ThroughputSpec{Mode: ThroughputAutoscale, RequestUnits: maxRU}
}

// ServerlessThroughput returns a spec without dedicated throughput.
func ServerlessThroughput() ThroughputSpec {
	return ThroughputSpec{Mode: ThroughputServerless}
}

// DefaultThroughput returns ManualThroughput(DefaultRequestUnits).
func DefaultThroughput() ThroughputSpec {
	return ManualThroughput(DefaultRequestUnits)
}

func (t ThroughputSpec) String() string {
	if t.Mode == ThroughputServerless {
		return t.Mode.String()
	}
	return fmt.Sprintf("%s(%d)", t.Mode, t.RequestUnits)
}
