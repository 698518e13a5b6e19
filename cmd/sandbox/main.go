package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "sandbox"
	app.Usage = "interactive forward-rendering sandbox"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML file layered over the built-in settings",
		},
	}
	runFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "window width (overrides the config)",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "window height (overrides the config)",
		},
		cli.BoolFlag{
			Name:  "vsync",
			Usage: "force vertical sync on",
		},
		cli.BoolFlag{
			Name:  "no-vsync",
			Usage: "force vertical sync off",
		},
		cli.BoolFlag{
			Name:  "no-post",
			Usage: "start with post-processing disabled",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open the sandbox window",
			Description: `
Build the demo scene from the configuration and render it until the window
is closed. Escape quits; 1-3 switch cameras; Tab toggles wireframe.`,
			Flags:  runFlags,
			Action: RunSandbox,
		},
		{
			Name:   "info",
			Usage:  "print the resolved configuration",
			Action: ShowInfo,
		},
		{
			Name:      "dump-config",
			Usage:     "write the resolved configuration as TOML",
			ArgsUsage: "[file]",
			Action:    DumpConfig,
		},
	}
	app.Flags = append(app.Flags, runFlags...)
	app.Action = RunSandbox

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
