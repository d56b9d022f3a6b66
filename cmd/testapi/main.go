package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/snoolib/snoo"
)

// probeConfig is read from the environment. The probe phase talks raw HTTP
// on purpose, to inspect what Reddit actually sends before it goes through
// the library's parsers; the smoke phase then runs the same surface through
// the client.
type probeConfig struct {
	ClientID     string `envconfig:"REDDIT_CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"REDDIT_CLIENT_SECRET" required:"true"`
	Username     string `envconfig:"REDDIT_USERNAME"`
	Password     string `envconfig:"REDDIT_PASSWORD"`
	UserAgent    string `envconfig:"REDDIT_USER_AGENT" default:"snoo-probe/1.0"`
	Subreddit    string `envconfig:"PROBE_SUBREDDIT" default:"golang"`
	PostID       string `envconfig:"PROBE_POST_ID" default:"1h5wokb"`
	AuthURL      string `envconfig:"REDDIT_AUTH_URL" default:"https://www.reddit.com"`
	BaseURL      string `envconfig:"REDDIT_BASE_URL" default:"https://oauth.reddit.com"`
}

func main() {
	godotenv.Load()

	var cfg probeConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Printf("Config error: %v\n", err)
		return
	}

	token, err := getOAuthToken(&cfg)
	if err != nil {
		fmt.Printf("Failed to get token: %v\n", err)
		return
	}
	fmt.Printf("Got token: %.20s...\n", token)

	resp, err := fetchComments(&cfg, token)
	if err != nil {
		fmt.Printf("Failed to fetch: %v\n", err)
		return
	}

	// Parse and display structure
	var result []interface{}
	if err := json.Unmarshal(resp, &result); err != nil {
		fmt.Printf("Failed to parse: %v\n", err)
		fmt.Printf("Raw response: %.500s...\n", string(resp))
		return
	}

	fmt.Printf("\nReddit API Response Structure:\n")
	fmt.Printf("Number of top-level elements: %d\n", len(result))

	for i, elem := range result {
		m, ok := elem.(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Printf("\nElement %d:\n", i)
		fmt.Printf("  Kind: %v\n", m["kind"])

		data, ok := m["data"].(map[string]interface{})
		if !ok {
			continue
		}
		children, ok := data["children"].([]interface{})
		if !ok {
			continue
		}
		fmt.Printf("  Children count: %d\n", len(children))
		if len(children) == 0 {
			continue
		}

		// Show the first child's kind and a content sample
		child, ok := children[0].(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Printf("  First child kind: %v\n", child["kind"])
		childData, ok := child["data"].(map[string]interface{})
		if !ok {
			continue
		}
		switch child["kind"] {
		case "t3":
			fmt.Printf("    Post title: %v\n", childData["title"])
		case "t1":
			body := fmt.Sprintf("%v", childData["body"])
			if len(body) > 50 {
				body = body[:50] + "..."
			}
			fmt.Printf("    Comment: %s\n", body)
		}
	}

	runSmoke(&cfg)
}

// runSmoke exercises the read surface through the client and reports one
// line per operation.
func runSmoke(cfg *probeConfig) {
	fmt.Printf("\nLibrary smoke checks:\n")

	client, err := snoo.NewClient(&snoo.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Username:     cfg.Username,
		Password:     cfg.Password,
		UserAgent:    cfg.UserAgent,
		AuthURL:      cfg.AuthURL,
		BaseURL:      cfg.BaseURL,
	})
	if err != nil {
		fmt.Printf("  NewClient: FAIL (%v)\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		fmt.Printf("  Connect: FAIL (%v)\n", err)
		return
	}
	fmt.Printf("  Connect: ok\n")
	defer func() { _ = client.Logout(ctx) }()

	sub, err := client.GetSubreddit(ctx, cfg.Subreddit)
	if err != nil {
		fmt.Printf("  GetSubreddit: FAIL (%v)\n", err)
	} else {
		fmt.Printf("  GetSubreddit: ok (r/%s, %d subscribers)\n", sub.DisplayName, sub.Subscribers)
	}

	hot, err := client.GetHot(ctx, cfg.Subreddit, &snoo.ListingOptions{Limit: 3})
	if err != nil {
		fmt.Printf("  GetHot: FAIL (%v)\n", err)
	} else {
		fmt.Printf("  GetHot: ok (%d posts)\n", len(hot.Posts))
	}

	if err == nil && len(hot.Posts) > 0 {
		author := hot.Posts[0].Author
		user, uerr := client.GetUser(ctx, author)
		if uerr != nil {
			fmt.Printf("  GetUser(%s): FAIL (%v)\n", author, uerr)
		} else {
			fmt.Printf("  GetUser(%s): ok (%d link karma)\n", user.Name, user.LinkKarma)
		}
	}

	if cfg.Username == "" || cfg.Password == "" {
		fmt.Printf("  Me/GetUnread: skipped (no user credentials)\n")
		return
	}

	me, err := client.Me(ctx)
	if err != nil {
		fmt.Printf("  Me: FAIL (%v)\n", err)
	} else {
		fmt.Printf("  Me: ok (u/%s)\n", me.Name)
	}

	unread, err := client.GetUnread(ctx, nil)
	if err != nil {
		fmt.Printf("  GetUnread: FAIL (%v)\n", err)
	} else {
		fmt.Printf("  GetUnread: ok (%d unread)\n", len(unread.Messages))
	}
}

func getOAuthToken(cfg *probeConfig) (string, error) {
	req, err := http.NewRequest("POST", cfg.AuthURL+"/api/v1/access_token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}

	req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.Error != "" {
		return "", fmt.Errorf("auth error: %s", tokenResp.Error)
	}
	return tokenResp.AccessToken, nil
}

func fetchComments(cfg *probeConfig, token string) ([]byte, error) {
	url := fmt.Sprintf("%s/r/%s/comments/%s?limit=5&raw_json=1",
		cfg.BaseURL, cfg.Subreddit, cfg.PostID)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
