/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package provider

import (
	"strings"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/registry"
	"github.com/suparena/itemstore/storagemodels"
)

// ResolveDeclared builds the configuration of an item model declared by
// name only, e.g. from a YAML file, without a Go type to inspect. The same
// defaults and validation as for typed models apply. ItemType of the result
// is nil.
func ResolveDeclared(reg *registry.Registry, defaults Defaults, name string) (*storagemodels.ItemConfiguration, error) {
	opts, ok := reg.Declared(name)
	if !ok {
		return nil, errors.NewConfigurationResolutionError(name, "itemType", errors.NewNotFoundError("item type", name))
	}
	fail := func(facet Facet, err error) error {
		return errors.NewConfigurationResolutionError(name, string(facet), err)
	}
	if defaults.DefaultContainerID == "" {
		defaults.DefaultContainerID = DefaultContainerID
	}

	cfg := &storagemodels.ItemConfiguration{
		ContainerName:           opts.ContainerName,
		PartitionKeyPath:        opts.PartitionKeyPath,
		UniqueKeyPolicy:         storagemodels.UniqueKeyPolicy{Keys: opts.UniqueKeys}.Clone(),
		TimeToLiveSeconds:       -1,
		Throughput:              storagemodels.DefaultThroughput(),
		SyncContainerProperties: opts.SyncContainerProperties || defaults.SyncAllContainerProperties,
	}
	if cfg.ContainerName == "" {
		if defaults.ContainerPerItemType {
			cfg.ContainerName = name[strings.LastIndex(name, ".")+1:]
		} else {
			cfg.ContainerName = defaults.DefaultContainerID
		}
	}
	if cfg.PartitionKeyPath == "" {
		cfg.PartitionKeyPath = DefaultPartitionKeyPath
	}
	switch {
	case opts.TimeToLive != nil:
		cfg.TimeToLiveSeconds = *opts.TimeToLive
	case defaults.DefaultTimeToLive != nil:
		cfg.TimeToLiveSeconds = *defaults.DefaultTimeToLive
	}
	switch {
	case opts.Throughput != nil:
		cfg.Throughput = *opts.Throughput
	case defaults.DefaultThroughput != nil:
		cfg.Throughput = *defaults.DefaultThroughput
	}

	if err := ValidateContainerName(cfg.ContainerName); err != nil {
		return nil, fail(FacetContainerName, err)
	}
	if err := ValidatePath(string(FacetPartitionKeyPath), cfg.PartitionKeyPath); err != nil {
		return nil, fail(FacetPartitionKeyPath, err)
	}
	if err := ValidateUniqueKeyPolicy(cfg.UniqueKeyPolicy); err != nil {
		return nil, fail(FacetUniqueKeyPolicy, err)
	}
	if err := ValidateTimeToLive(cfg.TimeToLiveSeconds); err != nil {
		return nil, fail(FacetTimeToLive, err)
	}
	if err := ValidateThroughput(cfg.Throughput); err != nil {
		return nil, fail(FacetThroughput, err)
	}
	return cfg, nil
}
