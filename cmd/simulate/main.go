package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/glowbook/salon-booking/internal/config"
	"github.com/glowbook/salon-booking/internal/db"
)

// Fires a burst of concurrent booking requests at the same employee and
// start time. With the booking lock doing its job exactly one request may
// win; everything else must come back as a conflict.

type counters struct {
	created   int64
	conflicts int64
	rejected  int64
	errors    int64
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	baseURL := flag.String("api", "http://127.0.0.1:8080", "api-server base URL")
	workers := flag.Int("workers", 20, "concurrent booking attempts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	// Any employee together with one service they can perform.
	var employeeID, serviceID uuid.UUID
	err = pool.QueryRow(ctx, `
		SELECT es.employee_id, es.service_id
		FROM employee_services es
		LIMIT 1
	`).Scan(&employeeID, &serviceID)
	if err != nil {
		log.Fatalf("pick employee/service (did you run cmd/seed?): %v", err)
	}

	// Tomorrow mid-morning keeps the slot inside the default salon window.
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, time.Local).AddDate(0, 0, 1)

	log.Printf("racing %d bookings for employee=%s service=%s start=%s",
		*workers, employeeID, serviceID, start.Format(time.RFC3339))

	var c counters
	var wg sync.WaitGroup

	client := &http.Client{Timeout: 10 * time.Second}

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			status, body, err := attemptBooking(client, *baseURL, employeeID, serviceID, start)
			if err != nil {
				atomic.AddInt64(&c.errors, 1)
				log.Printf("request error: %v", err)
				return
			}

			switch {
			case status == http.StatusCreated:
				atomic.AddInt64(&c.created, 1)
			case status == http.StatusConflict:
				atomic.AddInt64(&c.conflicts, 1)
			case status >= 400 && status < 500:
				atomic.AddInt64(&c.rejected, 1)
				log.Printf("rejected status=%d body=%s", status, body)
			default:
				atomic.AddInt64(&c.errors, 1)
				log.Printf("unexpected status=%d body=%s", status, body)
			}
		}()
	}

	wg.Wait()

	log.Printf("created=%d conflicts=%d rejected=%d errors=%d",
		c.created, c.conflicts, c.rejected, c.errors)

	if c.created != 1 {
		log.Fatalf("expected exactly 1 created booking, got %d", c.created)
	}
	log.Println("booking serialization held")
}

func attemptBooking(client *http.Client, baseURL string, employeeID, serviceID uuid.UUID, start time.Time) (int, string, error) {
	payload, err := json.Marshal(map[string]any{
		"employee_id": employeeID.String(),
		"service_ids": []string{serviceID.String()},
		"start_time":  start.Format(time.RFC3339),
	})
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/bookings", bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	// Distinct customers so only the employee lock is contended.
	req.Header.Set("X-Customer-ID", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return 0, "", fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, string(body), nil
}
