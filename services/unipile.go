package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// UnipileService wraps the Unipile messaging API used for LinkedIn outreach.
// Every call is a single synchronous attempt; callers decide what to do with
// a failure.
type UnipileService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewUnipileService() *UnipileService {
	return &UnipileService{
		baseURL: os.Getenv("UNIPILE_DSN"),
		apiKey:  os.Getenv("UNIPILE_API_KEY"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type UnipileAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Status   string `json:"status"` // OK, CREDENTIALS, DISCONNECTED
	Provider string `json:"provider"`
}

type unipileAccountList struct {
	Items []UnipileAccount `json:"items"`
}

func (us *UnipileService) doRequest(method, path string, payload interface{}, out interface{}) error {
	if us.baseURL == "" || us.apiKey == "" {
		return fmt.Errorf("unipile is not configured")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, us.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-KEY", us.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := us.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("unipile %s %s: status %d: %s", method, path, res.StatusCode, string(resBody))
	}

	if out != nil {
		if err := json.Unmarshal(resBody, out); err != nil {
			return fmt.Errorf("unipile %s %s: malformed response: %v", method, path, err)
		}
	}
	return nil
}

// ListAccounts returns all messaging accounts connected to the workspace.
func (us *UnipileService) ListAccounts() ([]UnipileAccount, error) {
	var list unipileAccountList
	if err := us.doRequest(http.MethodGet, "/api/v1/accounts", nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetAccount fetches one account by Unipile id.
func (us *UnipileService) GetAccount(accountID string) (*UnipileAccount, error) {
	var account UnipileAccount
	if err := us.doRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// IsAccountActive reports whether the account exists and is in a usable state.
func (us *UnipileService) IsAccountActive(accountID string) (bool, error) {
	account, err := us.GetAccount(accountID)
	if err != nil {
		return false, err
	}
	return account.Status == "OK", nil
}

type sendInvitationInput struct {
	AccountID  string `json:"account_id"`
	ProviderID string `json:"provider_id"`
	Message    string `json:"message,omitempty"`
}

// SendConnectionRequest sends a LinkedIn invitation with an optional note.
func (us *UnipileService) SendConnectionRequest(accountID, providerID, message string) error {
	input := sendInvitationInput{AccountID: accountID, ProviderID: providerID, Message: message}
	return us.doRequest(http.MethodPost, "/api/v1/users/invite", input, nil)
}

type startChatInput struct {
	AccountID   string   `json:"account_id"`
	AttendeeIDs []string `json:"attendees_ids"`
	Text        string   `json:"text"`
}

type startChatResponse struct {
	ChatID string `json:"chat_id"`
}

// StartChat opens a new conversation with the attendee and sends the first
// message, returning the chat id for follow-ups.
func (us *UnipileService) StartChat(accountID, attendeeID, text string) (string, error) {
	input := startChatInput{AccountID: accountID, AttendeeIDs: []string{attendeeID}, Text: text}
	var res startChatResponse
	if err := us.doRequest(http.MethodPost, "/api/v1/chats", input, &res); err != nil {
		return "", err
	}
	return res.ChatID, nil
}

type sendMessageInput struct {
	Text string `json:"text"`
}

// SendChatMessage sends a message into an existing chat.
func (us *UnipileService) SendChatMessage(chatID, text string) error {
	return us.doRequest(http.MethodPost, "/api/v1/chats/"+chatID+"/messages", sendMessageInput{Text: text}, nil)
}
