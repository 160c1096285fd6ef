package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// ChatCommand returns the CLI command for an interactive session on stdin.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with PawsBot line by line (empty line or /quit exits)",
		Flags: append([]cli.Flag{userFlag}, petFlags()...),
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c.Context, c.String("env-file"))
			if err != nil {
				return err
			}
			defer rt.close()

			userID := c.String(userFlag.Name)
			extra := callerContext(petFromFlags(c))
			out := c.App.Writer

			fmt.Fprintln(out, "🐾 PawsBot is listening. Type /quit to leave.")
			scanner := bufio.NewScanner(c.App.Reader)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" || line == "/quit" {
					break
				}
				printReply(out, rt.engine.ProcessMessage(c.Context, userID, line, extra))
			}
			return scanner.Err()
		},
	}
}
