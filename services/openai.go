package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// OpenAIService covers post drafting (chat completions) and voice-memo
// transcription (audio API).
type OpenAIService struct {
	apiKey string
	model  string
	client *http.Client
}

func NewOpenAIService() *OpenAIService {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIService{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText runs a single chat completion with a system prompt and user
// input and returns the assistant text.
func (oa *OpenAIService) GenerateText(systemPrompt, userPrompt string) (string, error) {
	if oa.apiKey == "" {
		return "", fmt.Errorf("openai is not configured")
	}

	reqBody := chatCompletionRequest{
		Model: oa.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+oa.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := oa.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("openai completion: malformed response: %v", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("openai completion: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return completion.Choices[0].Message.Content, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends an audio file to the transcription endpoint and returns
// the recognized text.
func (oa *OpenAIService) Transcribe(filename string, audio []byte) (string, error) {
	if oa.apiKey == "" {
		return "", fmt.Errorf("openai is not configured")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", "whisper-1"); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+oa.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := oa.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("openai transcription: status %d: %s", res.StatusCode, string(body))
	}

	var transcription transcriptionResponse
	if err := json.Unmarshal(body, &transcription); err != nil {
		return "", fmt.Errorf("openai transcription: malformed response: %v", err)
	}
	return transcription.Text, nil
}
