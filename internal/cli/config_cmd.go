// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler.
//
// Command: config [show|get KEY|set KEY VALUE|keys|path]
// Short:   Inspect and edit ~/.mentorae/config.toml
//
// Examples:
//   mentorae config                      Show effective configuration
//   mentorae config get server.base_url
//   mentorae config set ui.theme light
//   mentorae config keys                 List settable keys
//   mentorae config path                 Print the config file path
package cli

import (
	"fmt"

	"github.com/mentorae/tutor-tui/internal/config"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(app *App, args Args) error {
	switch args.Subcommand {
	case "", "show":
		fmt.Print(app.Cfg.String())
		return nil

	case "get":
		if args.ConfigKey == "" {
			return fmt.Errorf("usage: mentorae config get KEY")
		}
		value, err := app.Cfg.Get(args.ConfigKey)
		if err != nil {
			return err
		}
		fmt.Printf("%v\n", value)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return fmt.Errorf("usage: mentorae config set KEY VALUE")
		}
		cfg := app.Cfg.Clone()
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return err
		}
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess(fmt.Sprintf("%s = %s", args.ConfigKey, args.ConfigVal)))
		return nil

	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Println(key)
		}
		return nil

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
	}
}
