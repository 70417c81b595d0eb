package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/mchmarny/agrodash/pkg/menu"
	"github.com/mchmarny/agrodash/pkg/operation"
)

// loadMenuConfig loads the menu data through an operation controller. A file
// that does not exist yet is treated as transient, since it may be a volume
// that is still being mounted; decode and validation errors are permanent
// configuration failures.
func loadMenuConfig(ctx context.Context, path string, opts ...operation.Option) (*menu.Config, error) {
	opts = append([]operation.Option{operation.WithName("load-menu-config")}, opts...)

	loader := operation.New[*menu.Config](opts...)
	defer loader.Cleanup()

	return loader.Execute(ctx, func(context.Context) (*menu.Config, error) {
		if path == "" {
			return menu.DefaultConfig()
		}

		cfg, err := menu.LoadConfig(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, operation.Transient(err)
		}
		if err != nil {
			return nil, operation.Permanent(err, operation.MessageConfig)
		}
		return cfg, nil
	})
}
