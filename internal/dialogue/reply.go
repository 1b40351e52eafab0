package dialogue

import "github.com/lvocabulary78-netizen/Stride/internal/model"

// ReplyKind classifies an outbound response so the transport can pick
// a rendering (plain message, inline choices, error notice).
type ReplyKind string

const (
	KindInfo     ReplyKind = "info"
	KindPrompt   ReplyKind = "prompt"
	KindChoices  ReplyKind = "choices"
	KindError    ReplyKind = "error"
	KindComplete ReplyKind = "complete"
)

// Choice data values understood by HandleChoice.
const (
	ChoiceUpdate = "update"
	ChoiceCancel = "cancel"
)

// Choice is one inline option offered with a KindChoices reply.
type Choice struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Reply describes an outbound response. The transport owns all
// platform-specific formatting and delivery.
type Reply struct {
	Kind    ReplyKind    `json:"kind"`
	Text    string       `json:"text"`
	Choices []Choice     `json:"choices,omitempty"`
	Entry   *model.Entry `json:"entry,omitempty"`
}

func info(text string) *Reply {
	return &Reply{Kind: KindInfo, Text: text}
}

func prompt(text string) *Reply {
	return &Reply{Kind: KindPrompt, Text: text}
}
