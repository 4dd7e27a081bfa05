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

// ApifyService wraps the Apify actor-run API used for profile enrichment and
// viral-post scraping. Runs are awaited with a fixed-interval poll capped at
// a hard attempt ceiling; there is no backoff.
type ApifyService struct {
	token  string
	client *http.Client

	pollInterval time.Duration
	maxAttempts  int
}

func NewApifyService() *ApifyService {
	return &ApifyService{
		token:        os.Getenv("APIFY_API_TOKEN"),
		client:       &http.Client{Timeout: 60 * time.Second},
		pollInterval: 5 * time.Second,
		maxAttempts:  24, // ~2 minutes
	}
}

type ApifyRun struct {
	ID               string `json:"id"`
	ActID            string `json:"actId"`
	Status           string `json:"status"` // READY, RUNNING, SUCCEEDED, FAILED, ABORTED, TIMED-OUT
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type apifyRunEnvelope struct {
	Data ApifyRun `json:"data"`
}

// StartRun launches an actor with the given JSON input.
func (as *ApifyService) StartRun(actorID string, input interface{}) (*ApifyRun, error) {
	if as.token == "" {
		return nil, fmt.Errorf("apify is not configured")
	}

	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://api.apify.com/v2/acts/%s/runs?token=%s", actorID, as.token)
	res, err := as.client.Post(endpoint, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("apify start run: status %d: %s", res.StatusCode, string(body))
	}

	var envelope apifyRunEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("apify start run: malformed response: %v", err)
	}
	return &envelope.Data, nil
}

// GetRun fetches the current state of a run.
func (as *ApifyService) GetRun(runID string) (*ApifyRun, error) {
	endpoint := fmt.Sprintf("https://api.apify.com/v2/actor-runs/%s?token=%s", runID, as.token)
	res, err := as.client.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("apify get run: status %d: %s", res.StatusCode, string(body))
	}

	var envelope apifyRunEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("apify get run: malformed response: %v", err)
	}
	return &envelope.Data, nil
}

// WaitForRun polls until the run reaches a terminal status or the attempt
// ceiling is hit, in which case a timeout error is returned.
func (as *ApifyService) WaitForRun(runID string) (*ApifyRun, error) {
	for attempt := 0; attempt < as.maxAttempts; attempt++ {
		run, err := as.GetRun(runID)
		if err != nil {
			return nil, err
		}
		switch run.Status {
		case "SUCCEEDED":
			return run, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return run, fmt.Errorf("apify run %s ended with status %s", runID, run.Status)
		}
		time.Sleep(as.pollInterval)
	}
	return nil, fmt.Errorf("apify run %s did not finish after %d polls", runID, as.maxAttempts)
}

// GetDatasetItems downloads the items of a run's default dataset into out
// (a pointer to a slice).
func (as *ApifyService) GetDatasetItems(datasetID string, out interface{}) error {
	endpoint := fmt.Sprintf("https://api.apify.com/v2/datasets/%s/items?token=%s&format=json", datasetID, as.token)
	res, err := as.client.Get(endpoint)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("apify dataset items: status %d: %s", res.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("apify dataset items: malformed response: %v", err)
	}
	return nil
}
