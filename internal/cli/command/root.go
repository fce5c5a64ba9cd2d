package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devserve/internal/infra/buildinfo"
	"github.com/yndnr/devserve/internal/infra/confloader"
	"github.com/yndnr/devserve/internal/infra/shutdown"
	"github.com/yndnr/devserve/internal/server/config"
	"github.com/yndnr/devserve/internal/server/devserver"
	"github.com/yndnr/devserve/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:            "devserve",
		Usage:           "Serve a local web app directory over HTTPS with a self-signed certificate",
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		Action:          serve,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			ConfigCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML or TOML configuration file",
			EnvVars: []string{"DEVSERVE_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Bind host (empty binds all interfaces)",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Listen port",
			Value:   config.DefaultPort,
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Content directory to serve (default: web next to the executable)",
		},
		&cli.StringFlag{
			Name:  "cert",
			Usage: "TLS certificate file, generated when missing (default: cert.pem next to the executable)",
		},
		&cli.StringFlag{
			Name:  "key",
			Usage: "TLS key file, generated when missing (default: key.pem next to the executable)",
		},
		&cli.BoolFlag{
			Name:  "no-tls",
			Usage: "Serve plain HTTP without touching certificates",
		},
		&cli.BoolFlag{
			Name:  "no-browser",
			Usage: "Do not open a browser after startup",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: config.DefaultLogLevel,
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
			Value: config.DefaultLogFormat,
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "Expose Prometheus metrics at " + config.DefaultMetricsPath,
		},
	}
}

// flagKeys maps value flags to configuration keys.
var flagKeys = map[string]string{
	"host":       "server.host",
	"port":       "server.port",
	"root":       "server.root",
	"cert":       "tls.cert_file",
	"key":        "tls.key_file",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// overrides returns the configuration keys set explicitly on the command
// line. Unset flags are left out so file and environment values survive.
func overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)

	for name, key := range flagKeys {
		if !c.IsSet(name) {
			continue
		}
		if name == "port" {
			m[key] = c.Int(name)
		} else {
			m[key] = c.String(name)
		}
	}

	if c.Bool("no-tls") {
		m["tls.enabled"] = false
	}
	if c.Bool("no-browser") {
		m["browser.open"] = false
	}
	if c.Bool("metrics") {
		m["metrics.enabled"] = true
	}

	return m
}

// installDir locates the directory the default paths are anchored at.
var installDir = config.InstallDir

// loadConfig loads configuration from file, environment and flags. Default
// paths sit next to the executable; paths given explicitly are used as is.
func loadConfig(c *cli.Context) (*config.ServerConfig, error) {
	dir, err := installDir()
	if err != nil {
		return nil, fmt.Errorf("locate install directory: %w", err)
	}
	cfg := config.DefaultAt(dir)

	opts := []confloader.Option{confloader.WithOverrides(overrides(c))}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// initLogger initializes the structured logger and makes it the default.
func initLogger(c *cli.Context, cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	logger.SetDefault(log)
	return log, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := initLogger(c, cfg)
	if err != nil {
		return err
	}

	log.Debug("starting devserve", "version", buildinfo.Version, "config", c.String("config"))

	ctx, stop := shutdown.WithSignals(c.Context)
	defer stop()

	err = devserver.New(cfg,
		devserver.WithLogger(log),
		devserver.WithOutput(c.App.Writer),
	).Run(ctx)

	if errors.Is(err, devserver.ErrPortInUse) {
		fmt.Fprintf(c.App.ErrWriter, "Port %d is already in use. Close the program using it or choose another port with --port.\n", cfg.Server.Port)
	}
	return err
}
