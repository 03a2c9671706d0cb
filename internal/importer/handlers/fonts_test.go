package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"design-importer/internal/importer/fonts"
	"design-importer/internal/importer/models"

	"github.com/gofiber/fiber/v3"
)

func newFontsApp(queue *fonts.DecisionQueue) *fiber.App {
	h := NewFontsHandler(queue, nil)
	app := fiber.New()
	app.Get("/fonts/pending", h.Pending)
	app.Post("/fonts/decision", h.Decide)
	return app
}

func TestPendingEmptyByDefault(t *testing.T) {
	app := newFontsApp(fonts.NewDecisionQueue())

	resp, err := app.Test(httptest.NewRequest("GET", "/fonts/pending", nil))
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Pending bool   `json:"pending"`
		Family  string `json:"family"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Pending || body.Family != "" {
		t.Errorf("expected no pending decision, got %+v", body)
	}
}

func TestDecisionRoundTrip(t *testing.T) {
	queue := fonts.NewDecisionQueue()
	app := newFontsApp(queue)

	done := make(chan models.FontChoice, 1)
	go func() {
		choice, err := queue.Request(context.Background(), "Futura")
		if err != nil {
			t.Errorf("request failed: %v", err)
		}
		done <- choice
	}()

	// Ждем, пока запрос повиснет в очереди
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, pending := queue.Pending(); pending || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	req := httptest.NewRequest("POST", "/fonts/decision", strings.NewReader(`{"ref":"font:lato"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	select {
	case choice := <-done:
		if choice.Ref != "font:lato" || choice.UseImage {
			t.Errorf("unexpected choice: %+v", choice)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked import never woke up")
	}
}

func TestDecisionWithoutPendingConflicts(t *testing.T) {
	app := newFontsApp(fonts.NewDecisionQueue())

	req := httptest.NewRequest("POST", "/fonts/decision", strings.NewReader(`{"useImage":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
}

func TestDecisionRequiresRefOrFallback(t *testing.T) {
	app := newFontsApp(fonts.NewDecisionQueue())

	req := httptest.NewRequest("POST", "/fonts/decision", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
