package slack

import (
	"context"
	"fmt"

	"github.com/testsabirweb/slack_export/pkg/models"
)

// responseMetadata carries the continuation cursor of a paginated response.
type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

type usersListResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error"`
	Members          []models.User    `json:"members"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

type conversationsListResponse struct {
	OK       bool             `json:"ok"`
	Error    string           `json:"error"`
	Channels []models.Channel `json:"channels"`
}

type messagesResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error"`
	Messages         []models.Message `json:"messages"`
	HasMore          bool             `json:"has_more"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

// missingField reports a 2xx response that lacks an expected collection
// key, surfacing the API's own error string when it sent one.
func missingField(endpoint, field, apiError string) error {
	if apiError != "" {
		return fmt.Errorf("%s response missing %q (api error: %s)", endpoint, field, apiError)
	}
	return fmt.Errorf("%s response missing %q", endpoint, field)
}

// ListUsers fetches every workspace member. users.list signals the end of
// the stream with an empty next_cursor rather than a has_more flag.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	cursor := ""
	for {
		params := map[string]any{"limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}

		var resp usersListResponse
		if err := c.call(ctx, "users.list", params, &resp); err != nil {
			return nil, err
		}
		if resp.Members == nil {
			return nil, missingField("users.list", "members", resp.Error)
		}

		users = append(users, resp.Members...)
		c.logger.Debug("fetched users page", "count", len(resp.Members))

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
	}
	return users, nil
}

// ListChannels fetches every non-archived conversation of any kind the
// token can see: public and private channels, group DMs, and DMs.
func (c *Client) ListChannels(ctx context.Context) ([]models.Channel, error) {
	params := map[string]any{
		"types":            "public_channel,private_channel,mpim,im",
		"exclude_archived": true,
	}

	var resp conversationsListResponse
	if err := c.call(ctx, "conversations.list", params, &resp); err != nil {
		return nil, err
	}
	if resp.Channels == nil {
		return nil, missingField("conversations.list", "channels", resp.Error)
	}
	return resp.Channels, nil
}

// FetchMessages fetches a channel's root message timeline (thread replies
// excluded) in the order the API returns it, following cursors until the
// API stops declaring has_more.
func (c *Client) FetchMessages(ctx context.Context, channelID string) ([]models.Message, error) {
	var messages []models.Message
	cursor := ""
	for {
		params := map[string]any{"channel": channelID, "limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}

		var resp messagesResponse
		if err := c.call(ctx, "conversations.history", params, &resp); err != nil {
			return nil, err
		}
		if resp.Messages == nil {
			return nil, missingField("conversations.history", "messages", resp.Error)
		}

		messages = append(messages, resp.Messages...)
		c.logger.Debug("fetched history page", "channel", channelID, "count", len(resp.Messages))

		if !resp.HasMore {
			break
		}
		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			return nil, fmt.Errorf("conversations.history declared has_more without a next cursor")
		}
	}
	return messages, nil
}

// FetchReplies fetches a full thread, root message first. The API repeats
// the root at the top of every page, so a root timestamp seen after at
// least one message has been collected marks the end of the thread: it is
// not re-appended and no further pages are fetched. Otherwise the loop
// follows cursors until has_more is false.
func (c *Client) FetchReplies(ctx context.Context, channelID, threadTS string) ([]models.Message, error) {
	var replies []models.Message
	cursor := ""
	for {
		params := map[string]any{"channel": channelID, "limit": pageLimit, "ts": threadTS}
		if cursor != "" {
			params["cursor"] = cursor
		}

		var resp messagesResponse
		if err := c.call(ctx, "conversations.replies", params, &resp); err != nil {
			return nil, err
		}
		if resp.Messages == nil {
			return nil, missingField("conversations.replies", "messages", resp.Error)
		}

		done := false
		for _, msg := range resp.Messages {
			if msg.TS == threadTS && len(replies) > 0 {
				done = true
				break
			}
			replies = append(replies, msg)
		}
		c.logger.Debug("fetched replies page", "channel", channelID, "thread_ts", threadTS, "collected", len(replies))

		if done || !resp.HasMore {
			break
		}
		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			return nil, fmt.Errorf("conversations.replies declared has_more without a next cursor")
		}
	}
	return replies, nil
}
