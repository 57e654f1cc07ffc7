/*
Package config loads repository options for itemstore.

Sources are applied in order:
  - a .env file, when present (github.com/joho/godotenv)
  - a YAML file (gopkg.in/yaml.v3)
  - ITEMSTORE_* environment variables

The result is validated with go-playground/validator. Time to live values
accept "off", "on", a number of seconds, or a duration such as "30d".

Example YAML:

	backend: cosmos
	cosmos:
	  endpoint: https://myaccount.documents.azure.com:443/
	  databaseId: shop
	defaultThroughput:
	  mode: manual
	  requestUnits: 400
	items:
	  - type: testmodels.Order
	    container: orders
	    sync: true

Items are declared by type name in a registry.Registry, so Go types named
testmodels.Order or Order pick them up.
*/
package config
