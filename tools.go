//go:build tools
// +build tools

// Package tools pins the generators behind the //go:generate directives
// (mockgen for mocks/) so go.mod and go.sum track them.
package pair_chat

import (
	_ "go.uber.org/mock/mockgen"
)
