package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"gorm.io/sqldialect"
)

const name = "sqldialect"

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    name,
		Version: version,
		Usage:   "Render vendor specific SQL fragments and classify database errors.",
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file providing vendor, version and log settings",
			},
			&cli.StringFlag{
				Name:    "vendor",
				Aliases: []string{"d"},
				Usage:   "database vendor or driver name, e.g. postgresql, mysql, mssql",
				EnvVars: []string{sqldialect.EnvVendor},
			},
			&cli.StringFlag{
				Name:    "server-version",
				Aliases: []string{"s"},
				Usage:   "server version, the vendor default when empty",
				EnvVars: []string{sqldialect.EnvVersion},
			},
		},
		Commands: cli.Commands{
			vendorsCommand,
			columnTypeCommand,
			lockCommand,
			translateCommand,
			encodeLiteralCommand,
		},
	}
}

// open resolves the dialect selected by the global flags
func open(c *cli.Context) (*sqldialect.DB, error) {
	config := &sqldialect.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := sqldialect.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config, %w", err)
		}
		config = loaded
	}

	if c.IsSet("vendor") {
		config.Vendor = c.String("vendor")
	}
	if c.IsSet("server-version") {
		config.Version = c.String("server-version")
	}
	if config.Log.Level == "" {
		config.Log.Level = "error"
	}
	return sqldialect.Open(config)
}
