/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package provider

import (
	"reflect"
	"strings"
)

// ContainerNamer is implemented by item models that name their container.
type ContainerNamer interface {
	ContainerName() string
}

// PartitionKeyPather is implemented by item models that declare their
// partition key path.
type PartitionKeyPather interface {
	PartitionKeyPath() string
}

// tagName is the struct tag read for storage metadata:
//
//	CustomerID string `json:"customerId" itemstore:"partitionKey"`
//	Email      string `json:"email" itemstore:"uniqueKey=email"`
const tagName = "itemstore"

// zeroAs returns the zero value of t as I, trying the value and then the
// pointer method set.
func zeroAs[I any](t reflect.Type) (I, bool) {
	var none I
	if t == nil || t.Kind() == reflect.Interface {
		return none, false
	}
	ptr := reflect.New(t)
	if v, ok := ptr.Elem().Interface().(I); ok {
		return v, true
	}
	if v, ok := ptr.Interface().(I); ok {
		return v, true
	}
	return none, false
}

// taggedField is a struct field carrying itemstore directives.
type taggedField struct {
	Path       string
	Directives map[string]string
}

// taggedFields walks the exported fields of t, descending into embedded
// structs, and returns those with an itemstore tag.
func taggedFields(t reflect.Type) []taggedField {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return collectTagged(t, map[reflect.Type]bool{})
}

func collectTagged(t reflect.Type, seen map[reflect.Type]bool) []taggedField {
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	var out []taggedField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, skip := jsonName(f)
		if skip {
			continue
		}

		// Embedded structs are promoted like encoding/json does, exported or not.
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && ft.Kind() == reflect.Struct && !hasJSONName(f) {
			out = append(out, collectTagged(ft, seen)...)
			continue
		}
		if !f.IsExported() {
			continue
		}

		tag, ok := f.Tag.Lookup(tagName)
		if !ok {
			continue
		}
		out = append(out, taggedField{
			Path:       "/" + name,
			Directives: parseDirectives(tag),
		})
	}
	return out
}

func jsonName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, false
}

func hasJSONName(f reflect.StructField) bool {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name != "" && name != "-"
}

// parseDirectives splits "partitionKey,uniqueKey=email" into a map.
func parseDirectives(tag string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		out[key] = value
	}
	return out
}
