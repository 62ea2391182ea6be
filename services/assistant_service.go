package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// AssistantService answers free-form questions about worship practice. With
// no upstream configured it degrades to a canned pointer at the bundled
// reference content instead of erroring.
type AssistantService struct {
	client *http.Client
	apiURL string
	apiKey string
}

func NewAssistantService() *AssistantService {
	return &AssistantService{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: os.Getenv("ASSISTANT_API_URL"),
		apiKey: os.Getenv("ASSISTANT_API_KEY"),
	}
}

type assistantRequest struct {
	Prompt string `json:"prompt"`
}

type assistantResponse struct {
	Answer string `json:"answer"`
}

const fallbackAnswer = "The assistant is not available right now. " +
	"Meanwhile you can browse the adhkar collection, the daily hadith, " +
	"and your prayer guide from the app."

func (s *AssistantService) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("question is required")
	}

	if s.apiURL == "" || s.apiKey == "" {
		return fallbackAnswer, nil
	}

	body, err := json.Marshal(assistantRequest{Prompt: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode assistant request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build assistant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Assistant upstream failed: %v", err)
		return fallbackAnswer, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Assistant upstream returned HTTP %d", resp.StatusCode)
		return fallbackAnswer, nil
	}

	var parsed assistantResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("Assistant payload malformed: %v", err)
		return fallbackAnswer, nil
	}
	if parsed.Answer == "" {
		return fallbackAnswer, nil
	}

	return parsed.Answer, nil
}
