// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

// Package cmdctx provides configuration loading for CLI commands.
package cmdctx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/config"
)

var (
	// ErrNotInitialized indicates no aeon.yaml was found in the current directory.
	ErrNotInitialized = errors.New("no aeon configuration (aeon.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigFileName is the name of the aeon configuration file.
const ConfigFileName = "aeon.yaml"

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved aeon configuration.
type Context struct {
	Config *config.Config
}

// Load loads the configuration from the current working directory and
// returns a new context.Context with the aeon Context stored in it.
func Load(ctx context.Context) (context.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(cwd, ConfigFileName)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return nil, ErrNotInitialized
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, validateErr)
	}

	return context.WithValue(ctx, contextKey{}, &Context{Config: cfg}), nil
}

// From extracts the aeon Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if aeonCtx, ok := ctx.Value(contextKey{}).(*Context); ok {
		return aeonCtx
	}
	return nil
}
