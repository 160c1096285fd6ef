package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

var demoQueries = []struct {
	description string
	query       string
}{
	{description: "Emergency", query: "Help! My dog is bleeding badly after an accident"},
	{description: "Health", query: "My cat has been vomiting since yesterday"},
	{description: "Behavior", query: "How do I stop my puppy from biting everyone?"},
	{description: "Nutrition", query: "What food is best for a senior dog?"},
	{description: "General", query: "What toys do rabbits like?"},
	{description: "Priority tie-break", query: "I'm worried about my dog's diet, this feels like an emergency"},
}

// DemoCommand returns the CLI command that runs a scripted conversation.
func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Run a scripted conversation through every topic",
		Flags: []cli.Flag{userFlag},
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c.Context, c.String("env-file"))
			if err != nil {
				return err
			}
			defer rt.close()

			out := c.App.Writer
			userID := c.String(userFlag.Name)
			for i, test := range demoQueries {
				fmt.Fprintf(out, "\n🚀 Test %d: %s\n", i+1, test.description)
				fmt.Fprintf(out, "Query: %q\n", test.query)

				reply, path := rt.engine.Trace(c.Context, userID, test.query, nil)
				fmt.Fprintf(out, "Path: %v\n", path)
				printReply(out, reply)

				time.Sleep(200 * time.Millisecond)
			}

			fmt.Fprintf(out, "🎉 Demo completed, %d conversations tracked\n", rt.engine.Store().Len())
			return nil
		},
	}
}
