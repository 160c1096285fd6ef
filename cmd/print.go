package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

func printReply(w io.Writer, reply model.Reply) {
	fmt.Fprintf(w, "[%s | %s | confidence %.2f | followup %t]\n",
		reply.Category, reply.Urgency, reply.Confidence, reply.NeedsFollowup)
	fmt.Fprintln(w, reply.Response)
	if !reply.Success {
		fmt.Fprintln(w, "(served a fallback reply after an internal error)")
	}
	fmt.Fprintln(w, strings.Repeat("─", 48))
}
