// Package gmail lists unread inbox messages and applies the two actions the
// panel offers, mark read and archive. Both actions are label modifications.
package gmail

import (
	"context"
	"fmt"
	"net/http"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/source"
)

const (
	userID      = "me"
	inboxQuery  = "in:inbox is:unread"
	maxMessages = 50

	labelUnread = "UNREAD"
	labelInbox  = "INBOX"
)

// Scopes the panel needs: read plus label modification for the actions.
var Scopes = []string{gmailapi.GmailModifyScope}

type Client struct {
	svc *gmailapi.Service
}

// NewClient builds a Gmail source over an authenticated HTTP client. A nil
// client means credentials were absent; the source reports unconfigured and
// the poll loop skips it.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	if httpClient == nil {
		return &Client{}, nil
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) Name() model.Source { return model.SourceGmail }

func (c *Client) Configured() bool { return c.svc != nil }

// Fetch lists unread inbox messages in the order the API returns them and
// resolves Subject and From through metadata-format gets.
func (c *Client) Fetch(ctx context.Context) ([]model.ExternalItem, error) {
	list, err := c.svc.Users.Messages.List(userID).
		Q(inboxQuery).
		MaxResults(maxMessages).
		Context(ctx).
		Do()
	if err != nil {
		return nil, source.NewFetchError(model.SourceGmail, source.FailureNetwork,
			fmt.Errorf("list messages: %w", err))
	}

	items := make([]model.ExternalItem, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msg, err := c.svc.Users.Messages.Get(userID, ref.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From").
			Context(ctx).
			Do()
		if err != nil {
			return nil, source.NewFetchError(model.SourceGmail, source.FailureNetwork,
				fmt.Errorf("get message %s: %w", ref.Id, err))
		}
		items = append(items, messageToItem(msg))
	}
	return items, nil
}

// MarkRead removes the UNREAD label. The message stays in the inbox.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	return c.modify(ctx, messageID, labelUnread)
}

// Archive removes the INBOX label. Gmail keeps the message under All Mail.
func (c *Client) Archive(ctx context.Context, messageID string) error {
	return c.modify(ctx, messageID, labelInbox)
}

func (c *Client) modify(ctx context.Context, messageID, removeLabel string) error {
	if c.svc == nil {
		return fmt.Errorf("gmail: not configured")
	}
	_, err := c.svc.Users.Messages.Modify(userID, messageID, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: []string{removeLabel},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("modify message %s: %w", messageID, err)
	}
	return nil
}

func messageToItem(msg *gmailapi.Message) model.ExternalItem {
	item := model.ExternalItem{ID: msg.Id}
	if msg.Payload != nil {
		item.Title = headerValue(msg.Payload.Headers, "Subject")
		item.Detail = headerValue(msg.Payload.Headers, "From")
	}
	if item.Title == "" {
		item.Title = "(no subject)"
	}
	return item
}

func headerValue(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}
