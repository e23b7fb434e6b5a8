package client

import (
	"context"
	"net/url"
)

// LeadsClient submits the contact form and drives chat qualification.
type LeadsClient struct {
	client *Client
}

// ContactForm is the landing page contact form.
type ContactForm struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Task     string `json:"task"`
	Package  string `json:"package,omitempty"`
	Source   string `json:"source,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

// Toast is the notification the page would show.
type Toast struct {
	Message    string `json:"message"`
	Kind       string `json:"kind"`
	DurationMS int64  `json:"duration_ms"`
}

// Lead is an accepted lead.
type Lead struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	Contact     string            `json:"contact"`
	Package     string            `json:"package,omitempty"`
	Assignments map[string]string `json:"ab_tests,omitempty"`
}

// SubmitResult is the outcome of a form submission.
type SubmitResult struct {
	Lead   *Lead             `json:"lead,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Toast  *Toast            `json:"toast,omitempty"`
}

// ChatOption is one button of a chat question.
type ChatOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ChatReply is the bot's latest turn.
type ChatReply struct {
	Messages       []string     `json:"messages"`
	Options        []ChatOption `json:"options,omitempty"`
	WaitingContact bool         `json:"waiting_contact"`
	Placeholder    string       `json:"placeholder,omitempty"`
	Completed      bool         `json:"completed"`
}

// ChatState is a conversation and the bot's reply.
type ChatState struct {
	Conversation struct {
		ID      string            `json:"id"`
		Step    int               `json:"step"`
		Answers map[string]string `json:"answers"`
		Savings int64             `json:"savings,omitempty"`
	} `json:"conversation"`
	Reply ChatReply `json:"reply"`
}

// Submit sends the contact form.  Field errors come back as an *APIError
// whose Data holds the SubmitResult.
func (l *LeadsClient) Submit(ctx context.Context, form ContactForm) (*SubmitResult, error) {
	var res SubmitResult
	if err := l.client.post(ctx, "/api/v1/leads", form, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// StartChat opens a conversation.
func (l *LeadsClient) StartChat(ctx context.Context, pageURL string) (*ChatState, error) {
	var st ChatState
	if err := l.client.post(ctx, "/api/v1/chat/sessions", map[string]string{"page_url": pageURL}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Answer picks an option of the pending question.
func (l *LeadsClient) Answer(ctx context.Context, conversationID, value string) (*ChatState, error) {
	var st ChatState
	path := "/api/v1/chat/sessions/" + url.PathEscape(conversationID) + "/answers"
	if err := l.client.post(ctx, path, map[string]string{"value": value}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Message sends free text, completing the chat once a contact is awaited.
func (l *LeadsClient) Message(ctx context.Context, conversationID, text string) (*ChatState, error) {
	var st ChatState
	path := "/api/v1/chat/sessions/" + url.PathEscape(conversationID) + "/messages"
	if err := l.client.post(ctx, path, map[string]string{"text": text}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

//Personal.AI order the ending
