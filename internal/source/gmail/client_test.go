package gmail

import (
	"context"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"
)

func TestUnconfiguredWithoutHTTPClient(t *testing.T) {
	client, err := NewClient(context.Background(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Configured() {
		t.Fatal("expected nil http client to mean unconfigured")
	}
}

func TestMessageToItem(t *testing.T) {
	msg := &gmailapi.Message{
		Id: "msg-1",
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "Subject", Value: "Weekly report"},
			},
		},
	}
	item := messageToItem(msg)
	if item.ID != "msg-1" || item.Title != "Weekly report" || item.Detail != "Alice <alice@example.com>" {
		t.Fatalf("unexpected item: %#v", item)
	}
}

func TestMessageToItemMissingSubject(t *testing.T) {
	msg := &gmailapi.Message{Id: "msg-2", Payload: &gmailapi.MessagePart{}}
	item := messageToItem(msg)
	if item.Title != "(no subject)" {
		t.Fatalf("unexpected title: %q", item.Title)
	}
}

func TestMessageToItemNilPayload(t *testing.T) {
	item := messageToItem(&gmailapi.Message{Id: "msg-3"})
	if item.ID != "msg-3" || item.Title != "(no subject)" || item.Detail != "" {
		t.Fatalf("unexpected item: %#v", item)
	}
}
