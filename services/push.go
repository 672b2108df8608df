package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/DreamGlimmer/movinin-sub000/models"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

var pushClient = &http.Client{Timeout: 10 * time.Second}

type expoPushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

// SendPush posts one notice to the Expo push relay for a single device
// token.
func SendPush(token, title, body string, data map[string]string) error {
	message := expoPushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	resp, err := pushClient.Post(expoPushURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push relay answered %d", resp.StatusCode)
	}
	return nil
}

// SendPushToUser fans a notice out to all of the user's registered
// devices. Users without push enabled are skipped silently; per-token
// failures are logged and do not stop the remaining tokens.
func SendPushToUser(user *models.User, title, body string, data map[string]string) {
	if !user.PushEnabled() {
		return
	}
	for _, token := range user.PushTokenList() {
		if err := SendPush(token, title, body, data); err != nil {
			log.Printf("push to user %d failed: %v", user.ID, err)
		}
	}
}
