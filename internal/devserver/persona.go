package devserver

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zhubert/parley/internal/personality"
)

// Responder produces the assistant's reply to the newest message in
// history.
type Responder interface {
	Reply(ctx context.Context, tag string, history []*Message) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, tag string, history []*Message) (string, error)

func (f ResponderFunc) Reply(ctx context.Context, tag string, history []*Message) (string, error) {
	return f(ctx, tag, history)
}

// PersonaResponder answers in the voice of the chat's personality. The same
// history always gets the same reply.
type PersonaResponder struct{}

var personaLines = map[string][]string{
	personality.Friend: {
		"Honestly? I get it. %s sounds like a lot. Want to talk it through?",
		"I'm always in your corner. What's the story behind %s?",
		"Okay, tell me everything about %s. I've got snacks and time.",
	},
	personality.Girlfriend: {
		"Aww, thank you for telling me about %s 💕 How are you feeling about it?",
		"I was just thinking about you! %s? Tell me more, I want to hear it all.",
		"You always make my day. Let's figure out %s together 😊",
	},
	personality.Guide: {
		"Good question. Let's break %s down step by step.\n\n1. Define the goal.\n2. List what you already know.\n3. Pick the smallest next action.",
		"Here is how I would approach %s:\n\n- Start with the fundamentals\n- Test one assumption at a time\n- Review what you learned",
		"Consider %s from first principles. What problem are you really trying to solve?",
	},
	personality.Bully: {
		"Wow. %s? That's what you came up with? Try again.",
		"Oh great, another genius idea: %s. Can't wait to see this fail.",
		"%s. Sure. And I'm the queen of England.",
	},
}

// Reply picks a line for tag keyed on the newest user message.
func (PersonaResponder) Reply(ctx context.Context, tag string, history []*Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	last := ""
	turns := 0
	for _, m := range history {
		if m.Role == roleUser {
			last = m.Content
			turns++
		}
	}

	lines, ok := personaLines[personality.Normalize(tag)]
	if !ok {
		lines = personaLines[personality.Default]
	}

	h := fnv.New32a()
	h.Write([]byte(last))
	line := lines[(h.Sum32()+uint32(turns))%uint32(len(lines))]

	topic := strings.Join(strings.Fields(last), " ")
	topic = runewidth.Truncate(topic, 60, "...")
	return fmt.Sprintf(line, fmt.Sprintf("%q", topic)), nil
}
