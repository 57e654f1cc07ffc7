/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

func toContainerProperties(spec storagemodels.ContainerSpec) azcosmos.ContainerProperties {
	props := azcosmos.ContainerProperties{
		ID: spec.Name,
		PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
			Paths: []string{spec.PartitionKeyPath},
		},
		DefaultTimeToLive: toTimeToLive(spec.TimeToLiveSeconds),
	}
	if !spec.UniqueKeyPolicy.IsZero() {
		policy := &azcosmos.UniqueKeyPolicy{}
		for _, k := range spec.UniqueKeyPolicy.Keys {
			policy.UniqueKeys = append(policy.UniqueKeys, azcosmos.UniqueKey{Paths: slices.Clone(k.Paths)})
		}
		props.UniqueKeyPolicy = policy
	}
	return props
}

func fromContainerProperties(props *azcosmos.ContainerProperties) storagemodels.ContainerProperties {
	if props == nil {
		return storagemodels.ContainerProperties{}
	}
	out := storagemodels.ContainerProperties{
		ID:                props.ID,
		TimeToLiveSeconds: fromTimeToLive(props.DefaultTimeToLive),
	}
	if len(props.PartitionKeyDefinition.Paths) > 0 {
		out.PartitionKeyPath = props.PartitionKeyDefinition.Paths[0]
	}
	if props.UniqueKeyPolicy != nil {
		for _, k := range props.UniqueKeyPolicy.UniqueKeys {
			out.UniqueKeyPolicy.Keys = append(out.UniqueKeyPolicy.Keys, storagemodels.UniqueKey{Paths: slices.Clone(k.Paths)})
		}
	}
	return out
}

// toTimeToLive maps 0 (off) to an absent setting.
func toTimeToLive(seconds int) *int32 {
	if seconds == 0 {
		return nil
	}
	ttl := int32(seconds)
	return &ttl
}

func fromTimeToLive(ttl *int32) int {
	if ttl == nil {
		return 0
	}
	return int(*ttl)
}

func toThroughputProperties(tp storagemodels.ThroughputSpec) (*azcosmos.ThroughputProperties, error) {
	var props azcosmos.ThroughputProperties
	switch tp.Mode {
	case storagemodels.ThroughputManual:
		props = azcosmos.NewManualThroughputProperties(tp.RequestUnits)
	case storagemodels.ThroughputAutoscale:
		props = azcosmos.NewAutoscaleThroughputProperties(tp.RequestUnits)
	default:
		return nil, fmt.Errorf("%s throughput cannot be provisioned: %w", tp.Mode, errors.ErrUnsupported)
	}
	return &props, nil
}

func fromThroughputProperties(props *azcosmos.ThroughputProperties) storagemodels.ThroughputSpec {
	if props == nil {
		return storagemodels.ServerlessThroughput()
	}
	if maxRU, ok := props.AutoscaleMaxThroughput(); ok {
		return storagemodels.AutoscaleThroughput(maxRU)
	}
	if ru, ok := props.ManualThroughput(); ok {
		return storagemodels.ManualThroughput(ru)
	}
	return storagemodels.ServerlessThroughput()
}

// checkThroughputChange rejects changes the data-plane SDK cannot apply:
// switching between manual and autoscale, and adding or removing dedicated
// throughput.
func checkThroughputChange(current, desired storagemodels.ThroughputSpec) error {
	if current.Mode == desired.Mode {
		return nil
	}
	return fmt.Errorf("changing throughput from %s to %s: %w", current, desired, errors.ErrUnsupported)
}

func statusCode(err error) int {
	var respErr *azcore.ResponseError
	if stderrors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

func isConflict(err error) bool {
	return statusCode(err) == http.StatusConflict
}

func isNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// noDedicatedThroughput matches the responses of ReadThroughput on
// serverless accounts and on containers sharing database throughput.
func noDedicatedThroughput(err error) bool {
	code := statusCode(err)
	return code == http.StatusNotFound || code == http.StatusBadRequest
}
