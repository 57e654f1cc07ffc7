/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package configuration

import (
	"fmt"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/provider"
	"github.com/suparena/itemstore/storagemodels"
)

// ValidateShared resolves every given type and checks that types stored in
// the same container agree on all container-level settings. A container is
// created by whichever type reaches it first, so disagreeing types would
// otherwise depend on startup order.
func (p *Provider) ValidateShared(types ...storagemodels.TypeKey) error {
	owners := make(map[string]*storagemodels.ItemConfiguration)
	for _, t := range types {
		cfg, err := p.Get(t)
		if err != nil {
			return err
		}
		owner, ok := owners[cfg.ContainerName]
		if !ok {
			owners[cfg.ContainerName] = cfg
			continue
		}
		if facet, mine, theirs, ok := firstConflict(cfg, owner); ok {
			return errors.NewConfigurationResolutionError(cfg.ItemTypeName(), string(provider.FacetContainerName),
				errors.NewValidationError(string(facet), fmt.Sprintf(
					"container %q is shared with %s but %v differs from %v",
					cfg.ContainerName, owner.ItemTypeName(), mine, theirs)))
		}
	}
	return nil
}

func firstConflict(a, b *storagemodels.ItemConfiguration) (provider.Facet, any, any, bool) {
	switch {
	case a.PartitionKeyPath != b.PartitionKeyPath:
		return provider.FacetPartitionKeyPath, a.PartitionKeyPath, b.PartitionKeyPath, true
	case !a.UniqueKeyPolicy.Equal(b.UniqueKeyPolicy):
		return provider.FacetUniqueKeyPolicy, a.UniqueKeyPolicy, b.UniqueKeyPolicy, true
	case a.TimeToLiveSeconds != b.TimeToLiveSeconds:
		return provider.FacetTimeToLive, a.TimeToLiveSeconds, b.TimeToLiveSeconds, true
	case a.Throughput != b.Throughput:
		return provider.FacetThroughput, a.Throughput, b.Throughput, true
	case a.SyncContainerProperties != b.SyncContainerProperties:
		return provider.FacetSyncPolicy, a.SyncContainerProperties, b.SyncContainerProperties, true
	}
	return "", nil, nil, false
}
