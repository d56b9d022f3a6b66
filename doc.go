// Package snoo is a client for Reddit's public JSON API with OAuth2 and
// anonymous access.
//
// # Overview
//
// The package covers the read surface of the API (feeds, comment trees,
// subreddit and user lookups, live threads) and the authenticated write
// surface (submitting, commenting, messaging, voting history, moderation).
// It supports three modes: application-only OAuth (script apps), user OAuth
// (password grant) and anonymous access to public endpoints.
//
// # Quick Start
//
// Create a client from Reddit API credentials, then connect:
//
//	client, err := snoo.NewClient(&snoo.Config{
//		ClientID:     "your-client-id",
//		ClientSecret: "your-client-secret",
//		UserAgent:    "myapp/1.0 by /u/yourusername",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := client.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Connection Lifecycle
//
// NewClient only validates the configuration and builds the client; no
// network traffic happens until Connect. Connect performs the OAuth token
// exchange and must succeed before any API method is used. Methods called
// before Connect return a StateError. Logout revokes the token and returns
// the client to the disconnected state; it can be connected again later.
//
// # Anonymous Mode
//
// A config with no credentials at all produces an anonymous client. It reads
// public endpoints through www.reddit.com without authentication, so Connect
// is a no-op and the write methods return a StateError. Reddit applies much
// stricter rate limits to anonymous traffic.
//
//	client, _ := snoo.NewClient(&snoo.Config{UserAgent: "myapp/1.0"})
//	_ = client.Connect(ctx)
//	posts, err := client.GetHot(ctx, "golang", nil)
//
// # Authentication Types
//
// Application-only authentication (ClientID and ClientSecret):
//   - Good for read-only operations and public data
//   - No user-specific permissions
//
// User authentication (additionally Username and Password):
//   - Enables the account, submission and moderation methods
//   - Required for private subreddits and the inbox
//
// # Common Operations
//
// Fetch hot posts from a subreddit:
//
//	posts, err := client.GetHot(ctx, "golang", &snoo.ListingOptions{Limit: 25})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, post := range posts.Posts {
//		fmt.Printf("%s (score: %d)\n", post.Title, post.Score)
//	}
//
// Get subreddit information:
//
//	sub, err := client.GetSubreddit(ctx, "golang")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("r/%s has %d subscribers\n", sub.DisplayName, sub.Subscribers)
//
// Retrieve a post with its comment tree:
//
//	page, err := client.GetComments(ctx, "golang", "abc123", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Post: %s\n", page.Post.Title)
//	snoo.NewCommentTree(page.Comments).Walk(func(c *types.Comment) {
//		fmt.Printf("- %s: %s\n", c.Author, c.Body)
//	})
//
// When a tree was truncated, page.MoreIDs holds the comment IDs that can be
// expanded with GetMoreComments.
//
// # Pagination
//
// Reddit paginates with "fullnames" (e.g. "t3_abc123" for posts). Every
// listing response carries After and Before cursors; feed them back through
// ListingOptions to move through the listing:
//
//	opts := &snoo.ListingOptions{Limit: 100}
//	for {
//		page, err := client.GetNew(ctx, "golang", opts)
//		if err != nil || page.After == "" {
//			break
//		}
//		opts.After = page.After
//	}
//
// The iterator does the same bookkeeping for you:
//
//	it := client.NewHotIterator(ctx, "golang", 100)
//	for it.HasNext() {
//		post, err := it.Next()
//		if errors.Is(err, snoo.ErrNoMorePosts) {
//			break
//		}
//		// ...
//	}
//
// After and Before cannot be combined in one request, and the maximum Limit
// per request is 100.
//
// # Error Handling
//
// Failures are typed; match them with errors.As against the types in
// pkg/errors:
//
//	posts, err := client.GetHot(ctx, "private", nil)
//	var apiErr *pkgerrs.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
//		// subreddit is private
//	}
//
// The package also ships predicates for the common cases: IsRateLimited,
// IsNotFound and IsUnauthorized.
//
// # Rate Limiting
//
// The client paces requests with a token bucket fed from Reddit's
// x-ratelimit headers and honours Retry-After on HTTP 429 responses.
// Transient failures are retried with exponential backoff.
//
// # Live Threads
//
// Live threads can be polled with GetLiveUpdates or streamed over Reddit's
// websocket:
//
//	stream, err := client.StreamLiveThread(ctx, "liveid")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer stream.Close()
//	for ev := range stream.Events() {
//		fmt.Println(ev.Type)
//	}
//
// # Logging
//
// Provide an *slog.Logger in the config to get structured request and retry
// logs:
//
//	config.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: slog.LevelDebug,
//	}))
//
// # Security Considerations
//
// Never hardcode credentials; load them from the environment or a secrets
// manager. When supplying a custom HTTP client keep TLS verification on and
// set a sane timeout (the default client uses 30 seconds). Use
// application-only auth when user credentials are not needed, and pick a
// descriptive UserAgent that identifies your app; Reddit throttles generic
// agents.
//
// # Reddit API Documentation
//
// For details on endpoints, parameters and response shapes, refer to
// Reddit's official API documentation at https://www.reddit.com/dev/api/.
package snoo
