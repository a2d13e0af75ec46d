package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestTargetPaths(t *testing.T) {
	tg := target{Project: "proj", Instance: "inst", Database: "db"}

	assert.Equal(t, "projects/proj/instances/inst", tg.instancePath())
	assert.Equal(t, "projects/proj/instances/inst/databases/db", tg.databasePath())
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()

	found := func(context.Context) error { return nil }
	missing := func(context.Context) error { return status.Error(codes.NotFound, "missing") }

	t.Run("existing resource is not created", func(t *testing.T) {
		created := false
		err := ensure(ctx, "instance", found, func(context.Context) error {
			created = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("missing resource is created", func(t *testing.T) {
		created := false
		err := ensure(ctx, "database", missing, func(context.Context) error {
			created = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("concurrent creation is tolerated", func(t *testing.T) {
		err := ensure(ctx, "database", missing, func(context.Context) error {
			return status.Error(codes.AlreadyExists, "exists")
		})
		assert.NoError(t, err)
	})

	t.Run("create failure", func(t *testing.T) {
		err := ensure(ctx, "database", missing, func(context.Context) error {
			return status.Error(codes.PermissionDenied, "denied")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create database")
	})

	t.Run("check failure", func(t *testing.T) {
		err := ensure(ctx, "instance", func(context.Context) error {
			return status.Error(codes.Unavailable, "down")
		}, found)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check instance")
	})
}
