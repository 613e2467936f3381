// Package assistant ties the pipeline together: user message in, UI context
// snapshot, prompt, model call, parse, dispatch, transcript out. The model is
// the only non-deterministic stage; everything after its raw text is.
package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mailpilot/internal/action"
	"mailpilot/internal/dispatch"
	"mailpilot/internal/llm"
	"mailpilot/internal/prompt"
	"mailpilot/internal/state"
)

// Assistant interprets natural-language requests against the live stores.
type Assistant struct {
	client llm.Client
	ui     *state.UI
	mail   *state.Mail
	log    *zap.Logger
}

// New builds an assistant over the given provider and stores. log may be nil.
func New(client llm.Client, ui *state.UI, mail *state.Mail, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{client: client, ui: ui, mail: mail, log: log}
}

// Interpretation is the outcome of mapping one user message to an action.
type Interpretation struct {
	Action action.Action
	// Source names who produced the action: the provider, or "fallback"
	// when the provider call failed.
	Source string
}

// Interpret maps one user message to exactly one validated action. A provider
// failure degrades to keyword matching; a malformed or invalid response
// degrades to asking the user to rephrase. Interpret itself cannot fail.
func (a *Assistant) Interpret(ctx context.Context, userMessage string) Interpretation {
	p := prompt.Build(userMessage, a.contextSnapshot())

	raw, err := a.client.Complete(ctx, p)
	source := a.client.Name()
	if err != nil {
		a.log.Warn("provider call failed, using keyword fallback",
			zap.String("provider", source), zap.Error(err))
		return Interpretation{Action: fallbackAction(userMessage), Source: "fallback"}
	}

	act, err := action.Parse(raw)
	if err != nil {
		a.log.Warn("unparseable model response",
			zap.String("provider", source), zap.String("raw", raw), zap.Error(err))
		return Interpretation{
			Action: askConfirmation("I had trouble processing that request. Could you try rephrasing it?"),
			Source: source,
		}
	}

	a.log.Debug("interpreted action",
		zap.String("provider", source), zap.String("action", string(act.Name)))
	return Interpretation{Action: act, Source: source}
}

// Handle runs the full turn: record the user message, interpret, dispatch,
// record the assistant's reply. Returns the dispatch result for the UI.
func (a *Assistant) Handle(ctx context.Context, userMessage string) dispatch.Result {
	a.ui.AddMessage("user", userMessage)

	interp := a.Interpret(ctx, userMessage)
	res := dispatch.Dispatch(ctx, interp.Action, a.ui, a.mail)

	reply := res.Message
	if reply == "" {
		reply = action.Describe(interp.Action)
	}
	a.ui.AddMessage("assistant", reply)

	a.log.Info("handled request",
		zap.String("action", string(interp.Action.Name)),
		zap.String("source", interp.Source),
		zap.Bool("success", res.Success))
	return res
}

func (a *Assistant) contextSnapshot() prompt.Context {
	ctx := prompt.Context{
		CurrentView:   a.ui.CurrentView(),
		ActiveFilters: a.ui.ActiveFilters(),
		ComposeDraft:  a.ui.ComposeDraft(),
		InboxEmailIDs: a.mail.InboxIDs(),
	}
	if id := a.ui.SelectedEmailID(); id != "" {
		ctx.SelectedEmailID = id
		if e, ok := a.mail.GetEmailByID(id); ok {
			ctx.SelectedEmail = &prompt.EmailSummary{
				ID:      e.ID,
				From:    e.From,
				Subject: e.Subject,
				Snippet: e.Snippet,
			}
		}
	}
	return ctx
}

// fallbackAction is the keyword net under a dead provider: common navigation
// still works offline, everything else asks the user to retry.
func fallbackAction(userMessage string) action.Action {
	lower := strings.ToLower(userMessage)
	switch {
	case strings.Contains(lower, "compose"), strings.Contains(lower, "write"),
		strings.Contains(lower, "new email"):
		return action.Action{Name: action.OpenCompose}
	case strings.Contains(lower, "inbox"):
		return action.Action{Name: action.ViewInbox}
	case strings.Contains(lower, "sent"):
		return action.Action{Name: action.ViewSent}
	}
	return askConfirmation("I'm sorry, the AI service encountered an error. Please try again.")
}

func askConfirmation(message string) action.Action {
	return action.Action{
		Name: action.AskConfirmation,
		Args: &action.Args{Message: message},
	}
}
