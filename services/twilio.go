package services

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// TwilioService sends SMS messages (phone verification codes, reply alerts).
type TwilioService struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

func NewTwilioService() *TwilioService {
	return &TwilioService{
		accountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		authToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		fromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SendSMS delivers one message to the given E.164 number.
func (tw *TwilioService) SendSMS(to, body string) error {
	if tw.accountSID == "" || tw.authToken == "" || tw.fromNumber == "" {
		return fmt.Errorf("twilio is not configured")
	}

	form := url.Values{}
	form.Add("To", to)
	form.Add("From", tw.fromNumber)
	form.Add("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", tw.accountSID)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(tw.accountSID, tw.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := tw.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("twilio send: status %d: %s", res.StatusCode, string(resBody))
	}
	return nil
}
