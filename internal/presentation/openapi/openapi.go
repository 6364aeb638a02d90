// Package openapi 埋め込みのOpenAPI仕様
package openapi

import _ "embed"

// Spec OpenAPI 3.0仕様（YAML）
//
//go:embed openapi.yaml
var Spec []byte
