/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suparena/itemstore/provider"
	"github.com/suparena/itemstore/storagemodels"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [type...]",
	Short: "Print the resolved configuration of declared item types",
	RunE:  runResolve,
}

type resolvedItem struct {
	Type         string     `yaml:"type"`
	Container    string     `yaml:"container"`
	PartitionKey string     `yaml:"partitionKey"`
	UniqueKeys   [][]string `yaml:"uniqueKeys,omitempty"`
	TimeToLive   int        `yaml:"timeToLive"`
	Throughput   string     `yaml:"throughput"`
	Sync         bool       `yaml:"sync"`
}

func toResolvedItem(name string, cfg *storagemodels.ItemConfiguration) resolvedItem {
	item := resolvedItem{
		Type:         name,
		Container:    cfg.ContainerName,
		PartitionKey: cfg.PartitionKeyPath,
		TimeToLive:   cfg.TimeToLiveSeconds,
		Throughput:   cfg.Throughput.String(),
		Sync:         cfg.SyncContainerProperties,
	}
	for _, key := range cfg.UniqueKeyPolicy.Keys {
		item.UniqueKeys = append(item.UniqueKeys, key.Paths)
	}
	return item
}

func runResolve(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	defaults, err := opts.Defaults()
	if err != nil {
		return err
	}
	reg, err := opts.Registry()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = opts.ItemTypes()
	}
	items := make([]resolvedItem, 0, len(names))
	for _, name := range names {
		cfg, err := provider.ResolveDeclared(reg, defaults, name)
		if err != nil {
			return err
		}
		items = append(items, toResolvedItem(name, cfg))
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(items)
}
