// Package api embeds the OpenAPI document of the work order service.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
