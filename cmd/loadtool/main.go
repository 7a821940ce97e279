// loadtool mints session tokens for load tests and seeds one note with the
// first of them.
//
//	JWT_SECRET=... go run ./cmd/loadtool -n 1000 -out tests/load/tokens.csv -base http://localhost:5000
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/baechuer/noteplus/internal/domain"
	"github.com/baechuer/noteplus/internal/infrastructure/security"
)

func main() {
	n := flag.Int("n", 1000, "number of tokens")
	out := flag.String("out", "tokens.csv", "token file, one per line")
	base := flag.String("base", "", "API base URL; empty skips seeding")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := run(*n, *out, *base, *ttl); err != nil {
		fmt.Fprintln(os.Stderr, "loadtool:", err)
		os.Exit(1)
	}
}

func run(n int, out, base string, ttl time.Duration) error {
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	signer := security.NewJWTSigner(secret, os.Getenv("JWT_ISSUER"))

	first, err := writeTokens(signer, n, out, ttl)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d tokens to %s\n", n, out)

	if base == "" || first == "" {
		return nil
	}
	id, err := seedNote(&http.Client{Timeout: 10 * time.Second}, base, first)
	if err != nil {
		return err
	}
	fmt.Printf("NOTE_ID:%s\n", id)
	return nil
}

func writeTokens(signer *security.JWTSigner, n int, path string, ttl time.Duration) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var first string
	for i := 0; i < n; i++ {
		tok, err := signer.Sign(domain.Identity{
			Name:  fmt.Sprintf("load-%d", i),
			Email: fmt.Sprintf("load-%d@loadtest.local", i),
		}, ttl)
		if err != nil {
			return "", err
		}
		if i == 0 {
			first = tok
		}
		if _, err := fmt.Fprintln(f, tok); err != nil {
			return "", err
		}
	}
	return first, nil
}

func seedNote(client *http.Client, base, token string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"category": "load",
		"title":    "Load Test Note",
		"content":  "created by loadtool",
	})

	req, err := http.NewRequest(http.MethodPost, base+"/api/notes", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create note: %s: %s", resp.Status, raw)
	}

	var res struct {
		NoteID string `json:"noteId"`
	}
	if err := json.Unmarshal(raw, &res); err != nil || res.NoteID == "" {
		return "", fmt.Errorf("create note: unexpected body %s", raw)
	}
	return res.NoteID, nil
}
