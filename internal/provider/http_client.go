package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TokenSource supplies a bearer token for one account's mailbox API calls.
// Token refresh and caching live behind this interface.
type TokenSource interface {
	Token(ctx context.Context, accountEmail string) (string, error)
}

// StaticTokenSource returns the same token for every account. Suitable for
// development and single-tenant deployments.
type StaticTokenSource string

// Token returns the static token
func (s StaticTokenSource) Token(_ context.Context, _ string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("no mailbox API token configured")
	}
	return string(s), nil
}

// GmailHTTPClient implements GoogleClient against the Gmail REST API. The
// list call returns IDs only, so each message is fetched individually in raw
// format.
type GmailHTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewGmailHTTPClient creates a Gmail client. An empty baseURL selects the
// public API endpoint; tests point it at a local server.
func NewGmailHTTPClient(baseURL string, httpClient *http.Client, tokens TokenSource) *GmailHTTPClient {
	if baseURL == "" {
		baseURL = "https://gmail.googleapis.com/gmail/v1"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &GmailHTTPClient{baseURL: baseURL, http: httpClient, tokens: tokens}
}

type gmailListResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type gmailMessageResponse struct {
	ID           string `json:"id"`
	Raw          string `json:"raw"`
	InternalDate string `json:"internalDate"`
}

// ListInbox lists inbox messages received after the given time
func (c *GmailHTTPClient) ListInbox(ctx context.Context, accountEmail string, after time.Time, maxResults int) ([]GoogleRawMessage, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("in:inbox after:%d", after.Unix()))
	query.Set("maxResults", strconv.Itoa(maxResults))

	listURL := fmt.Sprintf("%s/users/%s/messages?%s", c.baseURL, url.PathEscape(accountEmail), query.Encode())
	var listed gmailListResponse
	if err := c.getJSON(ctx, accountEmail, listURL, &listed); err != nil {
		return nil, fmt.Errorf("gmail list: %w", err)
	}

	items := make([]GoogleRawMessage, 0, len(listed.Messages))
	for _, ref := range listed.Messages {
		msgURL := fmt.Sprintf("%s/users/%s/messages/%s?format=raw", c.baseURL, url.PathEscape(accountEmail), url.PathEscape(ref.ID))
		var msg gmailMessageResponse
		if err := c.getJSON(ctx, accountEmail, msgURL, &msg); err != nil {
			return nil, fmt.Errorf("gmail get %s: %w", ref.ID, err)
		}

		raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(msg.Raw)
		if err != nil {
			// Undecodable payloads are skipped; the adapter cannot parse them
			// either.
			continue
		}
		item := GoogleRawMessage{ID: msg.ID, RawMIME: raw}
		if millis, err := strconv.ParseInt(msg.InternalDate, 10, 64); err == nil {
			item.InternalDate = time.UnixMilli(millis).UTC()
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *GmailHTTPClient) getJSON(ctx context.Context, accountEmail, rawURL string, out interface{}) error {
	token, err := c.tokens.Token(ctx, accountEmail)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GraphHTTPClient implements MicrosoftClient against the Microsoft Graph API
type GraphHTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewGraphHTTPClient creates a Graph client. An empty baseURL selects the
// public API endpoint; tests point it at a local server.
func NewGraphHTTPClient(baseURL string, httpClient *http.Client, tokens TokenSource) *GraphHTTPClient {
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com/v1.0"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &GraphHTTPClient{baseURL: baseURL, http: httpClient, tokens: tokens}
}

type graphRecipient struct {
	EmailAddress struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"emailAddress"`
}

type graphMessage struct {
	ID                string `json:"id"`
	InternetMessageID string `json:"internetMessageId"`
	Subject           string `json:"subject"`
	ReceivedDateTime  string `json:"receivedDateTime"`
	From              graphRecipient
	Sender            graphRecipient
	ToRecipients      []graphRecipient `json:"toRecipients"`
	Body              struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	InternetMessageHeaders []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"internetMessageHeaders"`
}

type graphListResponse struct {
	Value []graphMessage `json:"value"`
}

// ListMessages lists inbox messages received after the given time
func (c *GraphHTTPClient) ListMessages(ctx context.Context, accountEmail string, after time.Time, top int) ([]MicrosoftMessage, error) {
	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("receivedDateTime gt %s", after.UTC().Format(time.RFC3339)))
	query.Set("$top", strconv.Itoa(top))
	query.Set("$orderby", "receivedDateTime asc")
	query.Set("$select", "id,internetMessageId,subject,receivedDateTime,from,sender,toRecipients,body,internetMessageHeaders")

	listURL := fmt.Sprintf("%s/users/%s/mailFolders/inbox/messages?%s", c.baseURL, url.PathEscape(accountEmail), query.Encode())

	token, err := c.tokens.Token(ctx, accountEmail)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph list: unexpected status %d", resp.StatusCode)
	}

	var listed graphListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("graph list: decode: %w", err)
	}

	items := make([]MicrosoftMessage, 0, len(listed.Value))
	for _, gm := range listed.Value {
		item := MicrosoftMessage{
			ID:                gm.ID,
			InternetMessageID: gm.InternetMessageID,
			Subject:           gm.Subject,
			From:              MicrosoftRecipient{Name: gm.From.EmailAddress.Name, Address: gm.From.EmailAddress.Address},
			Sender:            MicrosoftRecipient{Name: gm.Sender.EmailAddress.Name, Address: gm.Sender.EmailAddress.Address},
			BodyContentType:   gm.Body.ContentType,
			BodyContent:       gm.Body.Content,
		}
		if ts, err := time.Parse(time.RFC3339, gm.ReceivedDateTime); err == nil {
			item.ReceivedDateTime = ts.UTC()
		}
		for _, to := range gm.ToRecipients {
			item.ToRecipients = append(item.ToRecipients, MicrosoftRecipient{Name: to.EmailAddress.Name, Address: to.EmailAddress.Address})
		}
		for _, h := range gm.InternetMessageHeaders {
			item.Headers = append(item.Headers, MicrosoftHeader{Name: h.Name, Value: h.Value})
		}
		items = append(items, item)
	}
	return items, nil
}
