package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

var (
	userFlag = &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "Conversation owner `ID`",
		Value:   "cli-user",
	}
	petTypeFlag   = &cli.StringFlag{Name: "pet-type", Usage: "Pet type, e.g. dog or cat"}
	petAgeFlag    = &cli.StringFlag{Name: "pet-age", Usage: "Pet age in years"}
	petBreedFlag  = &cli.StringFlag{Name: "pet-breed", Usage: "Pet breed"}
	petWeightFlag = &cli.StringFlag{Name: "pet-weight", Usage: "Pet weight, e.g. 12kg"}
)

func petFlags() []cli.Flag {
	return []cli.Flag{petTypeFlag, petAgeFlag, petBreedFlag, petWeightFlag}
}

func petFromFlags(c *cli.Context) *model.PetInfo {
	pet := model.PetInfo{
		Type:   c.String(petTypeFlag.Name),
		Age:    c.String(petAgeFlag.Name),
		Breed:  c.String(petBreedFlag.Name),
		Weight: c.String(petWeightFlag.Name),
	}
	if pet.IsZero() {
		return nil
	}
	return &pet
}

func callerContext(pet *model.PetInfo) map[string]any {
	if pet == nil {
		return nil
	}
	return map[string]any{model.PetInfoKey: *pet}
}

// AskCommand returns the CLI command for sending a single message
func AskCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send one message to PawsBot",
		ArgsUsage: "MESSAGE",
		Flags:     append([]cli.Flag{userFlag}, petFlags()...),
		Action: func(c *cli.Context) error {
			message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if message == "" {
				return fmt.Errorf("a message is required")
			}

			rt, err := bootstrap(c.Context, c.String("env-file"))
			if err != nil {
				return err
			}
			defer rt.close()

			reply := rt.engine.ProcessMessage(c.Context, c.String(userFlag.Name), message, callerContext(petFromFlags(c)))
			printReply(c.App.Writer, reply)
			return nil
		},
	}
}
