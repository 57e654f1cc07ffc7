/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/itemstore/errors"
	"github.com/suparena/itemstore/provider"
	"github.com/suparena/itemstore/registry"
	"github.com/suparena/itemstore/storagemodels"
)

// Backend names.
const (
	BackendCosmos   = "cosmos"
	BackendDynamoDB = "dynamodb"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ITEMSTORE_"

// Options is the repository configuration.
type Options struct {
	Backend string `yaml:"backend" validate:"required,oneof=cosmos dynamodb"`

	// AutoCreate creates missing containers; defaults to true.
	AutoCreate                 bool               `yaml:"autoCreate"`
	DefaultContainerID         string             `yaml:"defaultContainerId" validate:"omitempty,max=255,excludesall=/\\?#"`
	ContainerPerItemType       bool               `yaml:"containerPerItemType"`
	DefaultTimeToLive          string             `yaml:"defaultTimeToLive"`
	DefaultThroughput          *ThroughputOptions `yaml:"defaultThroughput"`
	SyncAllContainerProperties bool               `yaml:"syncAllContainerProperties"`

	Cosmos   CosmosOptions   `yaml:"cosmos"`
	DynamoDB DynamoDBOptions `yaml:"dynamodb"`

	Items []ItemOptions `yaml:"items" validate:"dive"`
}

// CosmosOptions configures the Cosmos DB backend.
type CosmosOptions struct {
	ConnectionString string `yaml:"connectionString"`
	Endpoint         string `yaml:"endpoint" validate:"omitempty,url"`
	Key              string `yaml:"key"`
	DatabaseID       string `yaml:"databaseId"`

	// DatabaseThroughput is provisioned when the database is created.
	DatabaseThroughput *ThroughputOptions `yaml:"databaseThroughput"`
}

// DynamoDBOptions configures the DynamoDB backend.
type DynamoDBOptions struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// ThroughputOptions is the YAML form of a storagemodels.ThroughputSpec.
type ThroughputOptions struct {
	Mode         string `yaml:"mode" validate:"omitempty,oneof=manual autoscale serverless"`
	RequestUnits int32  `yaml:"requestUnits" validate:"gte=0"`
}

// ItemOptions declares the storage options of one item model by type name.
type ItemOptions struct {
	Type         string             `yaml:"type" validate:"required"`
	Container    string             `yaml:"container" validate:"omitempty,max=255,excludesall=/\\?#"`
	PartitionKey string             `yaml:"partitionKey" validate:"omitempty,startswith=/"`
	UniqueKeys   [][]string         `yaml:"uniqueKeys" validate:"dive,min=1,dive,startswith=/"`
	TimeToLive   string             `yaml:"timeToLive"`
	Throughput   *ThroughputOptions `yaml:"throughput"`
	Sync         bool               `yaml:"sync"`
}

// Default returns the options used before any file or override is applied.
func Default() *Options {
	return &Options{
		Backend:    BackendCosmos,
		AutoCreate: true,
		Cosmos: CosmosOptions{
			DatabaseID: "itemstore",
		},
	}
}

// Load reads, in order, the optional .env files (".env" when none are
// given), the optional YAML file at path and the ITEMSTORE_* environment,
// then validates the result.
func Load(path string, envFiles ...string) (*Options, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	opts := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := opts.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func (o *Options) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BACKEND":                  &o.Backend,
		"DEFAULT_CONTAINER_ID":     &o.DefaultContainerID,
		"DEFAULT_TTL":              &o.DefaultTimeToLive,
		"COSMOS_CONNECTION_STRING": &o.Cosmos.ConnectionString,
		"COSMOS_ENDPOINT":          &o.Cosmos.Endpoint,
		"COSMOS_KEY":               &o.Cosmos.Key,
		"COSMOS_DATABASE":          &o.Cosmos.DatabaseID,
		"DDB_REGION":               &o.DynamoDB.Region,
		"DDB_ENDPOINT":             &o.DynamoDB.Endpoint,
		"AWS_ACCESS_KEY":           &o.DynamoDB.AccessKey,
		"AWS_SECRET_KEY":           &o.DynamoDB.SecretKey,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"AUTO_CREATE":             &o.AutoCreate,
		"CONTAINER_PER_ITEM_TYPE": &o.ContainerPerItemType,
		"SYNC_ALL":                &o.SyncAllContainerProperties,
	}
	for name, dst := range bools {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NewValidationError(EnvPrefix+name, fmt.Sprintf("%q is not a boolean", v))
		}
		*dst = b
	}
	return nil
}

// Validate checks struct constraints and the cross-field rules.
func (o *Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		var validationErrors validator.ValidationErrors
		if stderrors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("field '%s' failed on rule '%s'", e.Namespace(), e.Tag()))
			}
			return errors.NewValidationError("options", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("validating options: %w", err)
	}

	switch o.Backend {
	case BackendCosmos:
		if o.Cosmos.ConnectionString == "" && o.Cosmos.Endpoint == "" {
			return errors.NewValidationError("cosmos.endpoint", "an endpoint or connection string is required")
		}
		if o.Cosmos.DatabaseID == "" {
			return errors.NewValidationError("cosmos.databaseId", "must not be empty")
		}
	case BackendDynamoDB:
		if o.DynamoDB.Region == "" {
			return errors.NewValidationError("dynamodb.region", "must not be empty")
		}
	}

	if _, err := o.Defaults(); err != nil {
		return err
	}
	if _, err := o.Registry(); err != nil {
		return err
	}
	return nil
}

// Defaults converts the repository-wide options.
func (o *Options) Defaults() (provider.Defaults, error) {
	d := provider.Defaults{
		DefaultContainerID:         o.DefaultContainerID,
		ContainerPerItemType:       o.ContainerPerItemType,
		SyncAllContainerProperties: o.SyncAllContainerProperties,
	}
	ttl, err := ParseTimeToLive(o.DefaultTimeToLive)
	if err != nil {
		return provider.Defaults{}, errors.NewValidationError("defaultTimeToLive", err.Error())
	}
	d.DefaultTimeToLive = ttl
	tp, err := o.DefaultThroughput.spec()
	if err != nil {
		return provider.Defaults{}, errors.NewValidationError("defaultThroughput", err.Error())
	}
	d.DefaultThroughput = tp
	return d, nil
}

// Registry declares every configured item under its type name.
func (o *Options) Registry() (*registry.Registry, error) {
	reg := registry.New()
	for i, item := range o.Items {
		field := fmt.Sprintf("items[%d]", i)
		decl := registry.ItemOptions{
			ContainerName:           item.Container,
			PartitionKeyPath:        item.PartitionKey,
			SyncContainerProperties: item.Sync,
		}
		for _, paths := range item.UniqueKeys {
			decl.UniqueKeys = append(decl.UniqueKeys, storagemodels.UniqueKey{Paths: paths})
		}

		ttl, err := ParseTimeToLive(item.TimeToLive)
		if err != nil {
			return nil, errors.NewValidationError(field+".timeToLive", err.Error())
		}
		decl.TimeToLive = ttl
		tp, err := item.Throughput.spec()
		if err != nil {
			return nil, errors.NewValidationError(field+".throughput", err.Error())
		}
		decl.Throughput = tp

		if err := reg.Declare(item.Type, decl); err != nil {
			return nil, errors.NewValidationError(field+".type", err.Error())
		}
	}
	return reg, nil
}

// ItemTypes returns the declared type names in file order.
func (o *Options) ItemTypes() []string {
	names := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		names = append(names, item.Type)
	}
	return names
}

// CosmosDatabaseThroughput returns the shared database throughput, if any.
func (o *Options) CosmosDatabaseThroughput() (*storagemodels.ThroughputSpec, error) {
	return o.Cosmos.DatabaseThroughput.spec()
}

func (t *ThroughputOptions) spec() (*storagemodels.ThroughputSpec, error) {
	if t == nil {
		return nil, nil
	}
	mode, err := storagemodels.ParseThroughputMode(t.Mode)
	if err != nil {
		return nil, err
	}
	spec := storagemodels.ThroughputSpec{Mode: mode, RequestUnits: t.RequestUnits}
	if mode == storagemodels.ThroughputManual && spec.RequestUnits == 0 {
		spec.RequestUnits = storagemodels.DefaultRequestUnits
	}
	return &spec, nil
}

// ParseTimeToLive parses a TTL setting. The empty string means not set.
// "off" and "0" disable TTL, "on" and "-1" enable it without a default
// expiry. Anything else is a positive duration such as "3600", "90m" or
// "30d", rounded down to whole seconds.
func ParseTimeToLive(s string) (*int, error) {
	s = strings.TrimSpace(s)
	var seconds int
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "off", "0":
		seconds = 0
	case "on", "-1":
		seconds = -1
	default:
		if n, err := strconv.Atoi(s); err == nil {
			seconds = n
			break
		}
		d, err := strfmt.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid time to live %q: %w", s, err)
		}
		seconds = int(d / time.Second)
	}
	if seconds < -1 || (seconds == 0 && s != "0" && !strings.EqualFold(s, "off")) {
		return nil, fmt.Errorf("time to live %q must be off, on, or at least one second", s)
	}
	if err := provider.ValidateTimeToLive(seconds); err != nil {
		return nil, fmt.Errorf("time to live %q: %w", s, err)
	}
	return &seconds, nil
}
