package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devserve/internal/infra/confloader"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration as TOML",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the effective configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	out, err := confloader.TOML().Marshal(cfg.Map())
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	_, err = c.App.Writer.Write(out)
	return err
}

func configValidate(c *cli.Context) error {
	if _, err := loadConfig(c); err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, "configuration OK")
	return nil
}
