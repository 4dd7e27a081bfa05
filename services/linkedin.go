package services

import (
	"bytes"
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

// LinkedInService publishes posts through the LinkedIn UGC API and handles
// the OAuth code exchange for connecting an account.
type LinkedInService struct {
	client *http.Client
}

func NewLinkedInService() *LinkedInService {
	return &LinkedInService{client: &http.Client{Timeout: 30 * time.Second}}
}

type LinkedInTokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// ExchangeCode swaps an OAuth authorization code for an access token.
func (ls *LinkedInService) ExchangeCode(code, redirectURI string) (*LinkedInTokenResponse, error) {
	form := url.Values{}
	form.Add("grant_type", "authorization_code")
	form.Add("code", code)
	form.Add("redirect_uri", redirectURI)
	form.Add("client_id", os.Getenv("LINKEDIN_CLIENT_ID"))
	form.Add("client_secret", os.Getenv("LINKEDIN_CLIENT_SECRET"))

	res, err := ls.client.Post(
		"https://www.linkedin.com/oauth/v2/accessToken",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("linkedin token exchange: status %d: %s", res.StatusCode, string(body))
	}

	var token LinkedInTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("linkedin token exchange: malformed response: %v", err)
	}
	return &token, nil
}

type linkedInProfile struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

// GetProfile resolves the member id (URN suffix) behind an access token.
func (ls *LinkedInService) GetProfile(accessToken string) (id string, name string, err error) {
	req, err := http.NewRequest("GET", "https://api.linkedin.com/v2/userinfo", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := ls.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", "", err
	}
	if res.StatusCode != 200 {
		return "", "", fmt.Errorf("linkedin userinfo: status %d: %s", res.StatusCode, string(body))
	}

	var profile linkedInProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", "", fmt.Errorf("linkedin userinfo: malformed response: %v", err)
	}
	return profile.Sub, profile.Name, nil
}

// Publish pushes post content to LinkedIn as a UGC share on behalf of the
// connected account. Implements PlatformPublisher.
func (ls *LinkedInService) Publish(post *models.Post, account *models.SocialAccount) error {
	payload := map[string]interface{}{
		"author":         "urn:li:person:" + account.AccountID,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary": map[string]interface{}{
					"text": post.Content,
				},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]interface{}{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.linkedin.com/v2/ugcPosts", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	res, err := ls.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != 201 {
		return fmt.Errorf("linkedin publish: status %d: %s", res.StatusCode, string(body))
	}
	return nil
}
