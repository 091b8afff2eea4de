package msgraph

import (
	"context"
	"fmt"
	"net/url"
)

// ListMessages returns one page of messages, newest first. folderID may be
// empty for the whole mailbox. nextLink, when non-empty, is the continuation
// cursor from a previous page and overrides folderID/top entirely.
func (c *Client) ListMessages(ctx context.Context, userID uint, folderID string, top int, nextLink string) (*MessagePage, error) {
	path := nextLink
	if path == "" {
		if top <= 0 {
			top = 25
		}
		query := url.Values{}
		query.Set("$top", fmt.Sprintf("%d", top))
		query.Set("$orderby", "receivedDateTime desc")
		query.Set("$select", "id,subject,bodyPreview,from,toRecipients,receivedDateTime,sentDateTime,isRead,hasAttachments,webLink")
		if folderID != "" {
			path = fmt.Sprintf("/me/mailFolders/%s/messages?%s", url.PathEscape(folderID), query.Encode())
		} else {
			path = "/me/messages?" + query.Encode()
		}
	}

	var list graphList[graphMessage]
	if err := c.getJSON(ctx, userID, path, &list); err != nil {
		return nil, err
	}

	page := &MessagePage{NextLink: list.NextLink}
	for _, g := range list.Value {
		page.Messages = append(page.Messages, messageFromGraph(g))
	}
	return page, nil
}

// GetMessage returns a single message including its full body.
func (c *Client) GetMessage(ctx context.Context, userID uint, messageID string) (*Message, error) {
	var g graphMessage
	path := "/me/messages/" + url.PathEscape(messageID)
	if err := c.getJSON(ctx, userID, path, &g); err != nil {
		return nil, err
	}
	m := messageFromGraph(g)
	return &m, nil
}

// ListMailFolders returns the full folder tree. Graph pages both the top
// level and each child listing, so continuation cursors are followed
// internally and child folders are fetched while childFolderCount > 0.
func (c *Client) ListMailFolders(ctx context.Context, userID uint) ([]MailFolder, error) {
	return c.listFolders(ctx, userID, "/me/mailFolders")
}

func (c *Client) listFolders(ctx context.Context, userID uint, path string) ([]MailFolder, error) {
	var folders []MailFolder
	for path != "" {
		var list graphList[graphMailFolder]
		if err := c.getJSON(ctx, userID, path, &list); err != nil {
			return nil, err
		}
		for _, g := range list.Value {
			folder := mailFolderFromGraph(g)
			if g.ChildFolderCount > 0 {
				children, err := c.listFolders(ctx, userID, fmt.Sprintf("/me/mailFolders/%s/childFolders", url.PathEscape(g.ID)))
				if err != nil {
					return nil, err
				}
				folder.Children = children
			}
			folders = append(folders, folder)
		}
		path = list.NextLink
	}
	return folders, nil
}

// OutgoingMail is the portal-side shape of a mail to send.
type OutgoingMail struct {
	Subject  string
	Body     string
	BodyType string // "Text" or "HTML", defaults to Text
	To       []string
	Cc       []string
}

type graphSendMailRequest struct {
	Message         graphOutgoingMessage `json:"message"`
	SaveToSentItems bool                 `json:"saveToSentItems"`
}

type graphOutgoingMessage struct {
	Subject      string           `json:"subject"`
	Body         graphItemBody    `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
	CcRecipients []graphRecipient `json:"ccRecipients,omitempty"`
}

func recipientsToGraph(addresses []string) []graphRecipient {
	out := make([]graphRecipient, 0, len(addresses))
	for _, addr := range addresses {
		r := graphRecipient{}
		r.EmailAddress.Address = addr
		out = append(out, r)
	}
	return out
}

// SendMail sends a new message from the user's mailbox. Never degraded, never
// retried: a failure surfaces exactly as Graph reported it.
func (c *Client) SendMail(ctx context.Context, userID uint, mail OutgoingMail) error {
	bodyType := mail.BodyType
	if bodyType == "" {
		bodyType = "Text"
	}
	req := graphSendMailRequest{
		Message: graphOutgoingMessage{
			Subject:      mail.Subject,
			Body:         graphItemBody{ContentType: bodyType, Content: mail.Body},
			ToRecipients: recipientsToGraph(mail.To),
			CcRecipients: recipientsToGraph(mail.Cc),
		},
		SaveToSentItems: true,
	}
	return c.postJSON(ctx, userID, "/me/sendMail", req, nil)
}

// ReplyToMessage replies to the sender with the given comment.
func (c *Client) ReplyToMessage(ctx context.Context, userID uint, messageID, comment string) error {
	path := fmt.Sprintf("/me/messages/%s/reply", url.PathEscape(messageID))
	return c.postJSON(ctx, userID, path, map[string]string{"comment": comment}, nil)
}

// ForwardMessage forwards a message to the given recipients.
func (c *Client) ForwardMessage(ctx context.Context, userID uint, messageID, comment string, to []string) error {
	path := fmt.Sprintf("/me/messages/%s/forward", url.PathEscape(messageID))
	req := map[string]interface{}{
		"comment":      comment,
		"toRecipients": recipientsToGraph(to),
	}
	return c.postJSON(ctx, userID, path, req, nil)
}

// DeleteMessage removes a message from the mailbox.
func (c *Client) DeleteMessage(ctx context.Context, userID uint, messageID string) error {
	return c.delete(ctx, userID, "/me/messages/"+url.PathEscape(messageID))
}

// MarkMessageRead flags a message as read.
func (c *Client) MarkMessageRead(ctx context.Context, userID uint, messageID string) error {
	path := "/me/messages/" + url.PathEscape(messageID)
	return c.patchJSON(ctx, userID, path, map[string]bool{"isRead": true})
}
