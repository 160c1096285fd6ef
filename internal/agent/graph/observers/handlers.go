package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates the prompt, chat model and node observers for one run.
func NewAllCallbacks(runID string) []einocb.Handler {
	components := callbackHelper.NewHandlerHelper().
		ChatModel(newModelHandler(runID)).
		Prompt(newPromptHandler(runID)).
		Handler()

	return []einocb.Handler{components, newNodeHandler(runID)}
}
