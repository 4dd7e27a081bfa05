package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sray91/scriib-app-sub003/models"
)

// TwitterService publishes tweets through the v2 API and handles the OAuth2
// PKCE code exchange for connecting an account.
type TwitterService struct {
	client *http.Client
}

func NewTwitterService() *TwitterService {
	return &TwitterService{client: &http.Client{Timeout: 30 * time.Second}}
}

type TwitterTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode swaps an OAuth2 authorization code for an access token.
func (ts *TwitterService) ExchangeCode(code, redirectURI, codeVerifier string) (*TwitterTokenResponse, error) {
	form := url.Values{}
	form.Add("grant_type", "authorization_code")
	form.Add("code", code)
	form.Add("redirect_uri", redirectURI)
	form.Add("code_verifier", codeVerifier)
	form.Add("client_id", os.Getenv("TWITTER_CLIENT_ID"))

	req, err := http.NewRequest("POST", "https://api.twitter.com/2/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(os.Getenv("TWITTER_CLIENT_ID") + ":" + os.Getenv("TWITTER_CLIENT_SECRET")))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := ts.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("twitter token exchange: status %d: %s", res.StatusCode, string(body))
	}

	var token TwitterTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("twitter token exchange: malformed response: %v", err)
	}
	return &token, nil
}

type twitterUserResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

// GetProfile resolves the authenticated user's id and handle.
func (ts *TwitterService) GetProfile(accessToken string) (id string, username string, err error) {
	req, err := http.NewRequest("GET", "https://api.twitter.com/2/users/me", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := ts.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", "", err
	}
	if res.StatusCode != 200 {
		return "", "", fmt.Errorf("twitter users/me: status %d: %s", res.StatusCode, string(body))
	}

	var user twitterUserResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", "", fmt.Errorf("twitter users/me: malformed response: %v", err)
	}
	return user.Data.ID, user.Data.Username, nil
}

// Publish posts the content as a tweet. Implements PlatformPublisher.
func (ts *TwitterService) Publish(post *models.Post, account *models.SocialAccount) error {
	payload := map[string]string{"text": post.Content}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.twitter.com/2/tweets", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := ts.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != 201 {
		return fmt.Errorf("twitter publish: status %d: %s", res.StatusCode, string(body))
	}
	return nil
}
