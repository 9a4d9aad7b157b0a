//go:build tools
// +build tools

// Pins dev tools (like oapi-codegen) into go.mod so everyone/CI uses the
// same versions. Excluded from normal builds by the 'tools' build tag.

package tools

import (
	_ "github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen"
)
