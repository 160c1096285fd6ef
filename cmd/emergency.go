package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// EmergencyCommand returns the CLI command for an emergency symptom check.
func EmergencyCommand() *cli.Command {
	return &cli.Command{
		Name:      "emergency",
		Usage:     "Assess symptoms for an emergency",
		ArgsUsage: "SYMPTOMS",
		Flags:     append([]cli.Flag{userFlag}, petFlags()...),
		Action: func(c *cli.Context) error {
			symptoms := strings.Join(c.Args().Slice(), " ")

			rt, err := bootstrap(c.Context, c.String("env-file"))
			if err != nil {
				return err
			}
			defer rt.close()

			assessment, err := rt.engine.EmergencyCheck(c.Context, c.String(userFlag.Name), symptoms, petFromFlags(c))
			if err != nil {
				return err
			}

			out := c.App.Writer
			fmt.Fprintf(out, "Urgency: %s (immediate action: %t, vet recommended: %t)\n",
				assessment.UrgencyLevel, assessment.ImmediateAction, assessment.VetRecommended)
			fmt.Fprintln(out, assessment.Assessment)
			return nil
		},
	}
}
