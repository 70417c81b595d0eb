package main

import (
	"encoding/json"
	"fmt"

	"github.com/mchmarny/agrodash/pkg/menu"
	"github.com/mchmarny/agrodash/pkg/operation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var menuRole string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the menu of a role as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		role, err := menu.ParseRole(menuRole)
		if err != nil {
			return err
		}

		cfg, err := loadMenuConfig(cmd.Context(), viper.GetString(keyMenuConfig),
			operation.WithMaxRetries(0))
		if err != nil {
			return err
		}

		model, err := menu.NewModel(cfg)
		if err != nil {
			return err
		}

		entries, err := model.Build(role)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding menu: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	menuCmd.Flags().StringVar(&menuRole, "role", string(menu.RoleUser), "menu role: user or admin")
}
