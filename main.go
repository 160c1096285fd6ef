package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/PawsConnect/pawsbot/cmd"
)

const (
	version = "0.1.0"
)

func main() {
	app := &cli.App{
		Name:    "pawsbot",
		Usage:   "PawsConnect's pet-care assistant",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Load environment from `FILE`",
				Value:   ".env",
			},
		},
		Commands: []*cli.Command{
			cmd.AskCommand(),
			cmd.ChatCommand(),
			cmd.DemoCommand(),
			cmd.EmergencyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
