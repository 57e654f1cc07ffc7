/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/storagemodels"
)

// ContainerName resolves, in order: the registry, the ContainerNamer method,
// the type name when ContainerPerItemType is set, DefaultContainerID.
func (d *defaultProvider) ContainerName(t storagemodels.TypeKey) (string, error) {
	name := d.declared(t).ContainerName
	if name == "" {
		if namer, ok := zeroAs[ContainerNamer](t); ok {
			name = namer.ContainerName()
		} else if d.defaults.ContainerPerItemType && t != nil {
			name = t.Name()
		} else {
			name = d.defaults.DefaultContainerID
		}
	}
	if err := ValidateContainerName(name); err != nil {
		return "", err
	}
	return name, nil
}

// PartitionKeyPath resolves, in order: the registry, the PartitionKeyPather
// method, the field tagged `itemstore:"partitionKey"`, "/id".
func (d *defaultProvider) PartitionKeyPath(t storagemodels.TypeKey) (string, error) {
	path := d.declared(t).PartitionKeyPath
	if path == "" {
		if pather, ok := zeroAs[PartitionKeyPather](t); ok {
			path = pather.PartitionKeyPath()
		}
	}
	if path == "" {
		var tagged []string
		for _, f := range taggedFields(t) {
			if _, ok := f.Directives["partitionKey"]; ok {
				tagged = append(tagged, f.Path)
			}
		}
		switch len(tagged) {
		case 0:
			path = DefaultPartitionKeyPath
		case 1:
			path = tagged[0]
		default:
			return "", errors.NewValidationError(string(FacetPartitionKeyPath),
				fmt.Sprintf("multiple fields tagged as partition key: %s", strings.Join(tagged, ", ")))
		}
	}
	if err := ValidatePath(string(FacetPartitionKeyPath), path); err != nil {
		return "", err
	}
	return path, nil
}

// UniqueKeyPolicy resolves the registry's unique keys, or else groups the
// fields tagged `itemstore:"uniqueKey=<group>"` by group name.
func (d *defaultProvider) UniqueKeyPolicy(t storagemodels.TypeKey) (storagemodels.UniqueKeyPolicy, error) {
	policy := storagemodels.UniqueKeyPolicy{Keys: d.declared(t).UniqueKeys}
	if policy.IsZero() {
		groups := make(map[string][]string)
		for _, f := range taggedFields(t) {
			group, ok := f.Directives["uniqueKey"]
			if !ok {
				continue
			}
			if group == "" {
				return storagemodels.UniqueKeyPolicy{}, errors.NewValidationError(string(FacetUniqueKeyPolicy),
					fmt.Sprintf("field %s: uniqueKey needs a group name", f.Path))
			}
			groups[group] = append(groups[group], f.Path)
		}
		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			policy.Keys = append(policy.Keys, storagemodels.UniqueKey{Paths: groups[name]})
		}
	}
	if err := ValidateUniqueKeyPolicy(policy); err != nil {
		return storagemodels.UniqueKeyPolicy{}, err
	}
	return policy.Clone(), nil
}

// DefaultTimeToLive resolves the registry TTL, the repository default, or -1.
func (d *defaultProvider) DefaultTimeToLive(t storagemodels.TypeKey) (int, error) {
	ttl := -1
	if declared := d.declared(t).TimeToLive; declared != nil {
		ttl = *declared
	} else if d.defaults.DefaultTimeToLive != nil {
		ttl = *d.defaults.DefaultTimeToLive
	}
	if err := ValidateTimeToLive(ttl); err != nil {
		return 0, err
	}
	return ttl, nil
}

// Throughput resolves the registry throughput, the repository default, or
// manual 400.
func (d *defaultProvider) Throughput(t storagemodels.TypeKey) (storagemodels.ThroughputSpec, error) {
	tp := storagemodels.DefaultThroughput()
	if declared := d.declared(t).Throughput; declared != nil {
		tp = *declared
	} else if d.defaults.DefaultThroughput != nil {
		tp = *d.defaults.DefaultThroughput
	}
	if err := ValidateThroughput(tp); err != nil {
		return storagemodels.ThroughputSpec{}, err
	}
	return tp, nil
}

// ShouldSync is true when the model or the repository asks for it.
func (d *defaultProvider) ShouldSync(t storagemodels.TypeKey) (bool, error) {
	return d.defaults.SyncAllContainerProperties || d.declared(t).SyncContainerProperties, nil
}
