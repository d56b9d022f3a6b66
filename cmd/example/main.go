package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/snoolib/snoo"
	"github.com/snoolib/snoo/pkg/types"
)

func main() {
	// Credentials come from the environment, with a .env file as fallback.
	godotenv.Load()
	clientID := os.Getenv("REDDIT_CLIENT_ID")
	clientSecret := os.Getenv("REDDIT_CLIENT_SECRET")
	username := os.Getenv("REDDIT_USERNAME")
	password := os.Getenv("REDDIT_PASSWORD")

	if clientID == "" || clientSecret == "" {
		log.Fatal("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET environment variables are required")
	}

	// Route structured logs to stdout; adjust the level as needed.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	client, err := snoo.NewClient(&snoo.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Username:     username, // Optional: for user-authenticated requests
		Password:     password, // Optional: for user-authenticated requests
		UserAgent:    "example-bot/1.0 by YourUsername",
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to Reddit: %v", err)
	}
	defer func() {
		if err := client.Logout(ctx); err != nil {
			log.Printf("Logout failed: %v", err)
		}
	}()

	fmt.Println("Successfully connected to Reddit!")

	// If we have user credentials, get user info
	if username != "" && password != "" {
		userInfo, err := client.Me(ctx)
		if err != nil {
			log.Printf("Failed to get user info: %v", err)
		} else {
			fmt.Printf("Authenticated as user: %s\n", userInfo.Name)
		}
	}

	// Get hot posts from r/golang
	hotPosts, err := client.GetHot(ctx, "golang", &snoo.ListingOptions{Limit: 5})
	if err != nil {
		log.Fatalf("Failed to get hot posts: %v", err)
	}
	fmt.Println("\nHot posts from r/golang:")
	for i, post := range hotPosts.Posts {
		fmt.Printf("%d. %s (score: %d, comments: %d)\n",
			i+1, post.Title, post.Score, post.NumComments)
	}
	if hotPosts.After != "" {
		fmt.Printf("Next page: %s\n", hotPosts.After)
	}

	// Get subreddit info
	subredditInfo, err := client.GetSubreddit(ctx, "golang")
	if err != nil {
		log.Printf("Failed to get subreddit info: %v", err)
	} else {
		fmt.Printf("\nSubreddit: r/%s\n", subredditInfo.DisplayName)
		fmt.Printf("Subscribers: %d\n", subredditInfo.Subscribers)
		fmt.Printf("Description: %.100s...\n", subredditInfo.PublicDescription)
	}

	if len(hotPosts.Posts) == 0 {
		return
	}

	// Get comments for the first post
	firstPost := hotPosts.Posts[0]
	comments, err := client.GetComments(ctx, "golang", firstPost.ID, &snoo.CommentOptions{Limit: 5})
	if err != nil {
		log.Printf("Failed to get comments: %v", err)
	} else if comments.Post == nil {
		log.Printf("No post data returned with comments")
	} else {
		fmt.Printf("\nComments for post: %s\n", comments.Post.Title)
		for i, comment := range comments.Comments {
			if i >= 3 { // Show only first 3 comments
				break
			}
			fmt.Printf("  - %s: %.100s...\n", comment.Author, comment.Body)
		}
		if len(comments.MoreIDs) > 0 {
			fmt.Printf("  (%d more comments available)\n", len(comments.MoreIDs))
		}
	}

	fmt.Println("\n=== PAGINATION & TREE TRAVERSAL DEMOS ===")

	// 1. Page through posts with the iterator
	fmt.Println("\n1. Iterating posts across pages:")
	it := client.NewHotIterator(ctx, "golang", 5)
	posts, err := it.Collect(15)
	if err != nil && len(posts) == 0 {
		log.Printf("Failed to iterate posts: %v", err)
	}
	for i, post := range posts {
		if i < 6 {
			fmt.Printf("   - %.60s (score: %d)\n", post.Title, post.Score)
		}
	}
	fmt.Printf("   Total posts fetched: %d\n", len(posts))

	// 2. Load truncated comments with GetMoreComments
	if comments != nil && len(comments.MoreIDs) > 0 {
		fmt.Printf("\n2. Loading more comments (found %d truncated):\n", len(comments.MoreIDs))

		moreToLoad := comments.MoreIDs
		if len(moreToLoad) > 10 {
			moreToLoad = moreToLoad[:10]
		}
		moreComments, err := client.GetMoreComments(ctx, &snoo.MoreCommentsRequest{
			LinkFullname: types.NewFullname(types.KindLink, firstPost.ID),
			CommentIDs:   moreToLoad,
			Sort:         "best",
		})
		if err != nil {
			log.Printf("Failed to load more comments: %v", err)
		} else {
			fmt.Printf("   Loaded %d additional comments:\n", len(moreComments))
			for i, comment := range moreComments {
				if i >= 3 {
					break
				}
				fmt.Printf("   - %s: %.80s...\n", comment.Author, comment.Body)
			}
		}
	}

	// 3. Batch-load comments for several posts at once
	if len(hotPosts.Posts) >= 3 {
		fmt.Println("\n3. Batch loading comments for multiple posts:")

		requests := []*snoo.CommentsRequest{
			{Subreddit: "golang", PostID: hotPosts.Posts[0].ID, CommentOptions: snoo.CommentOptions{Limit: 5}},
			{Subreddit: "golang", PostID: hotPosts.Posts[1].ID, CommentOptions: snoo.CommentOptions{Limit: 5}},
			{Subreddit: "golang", PostID: hotPosts.Posts[2].ID, CommentOptions: snoo.CommentOptions{Limit: 5}},
		}
		batchResults, err := client.GetCommentsMultiple(ctx, requests)
		if err != nil {
			log.Printf("Batch loading error: %v", err)
		}
		for i, result := range batchResults {
			if result == nil {
				continue
			}
			title := "(post data not included)"
			if result.Post != nil {
				title = result.Post.Title
			}
			fmt.Printf("   Post %d: %.50s - %d comments loaded\n", i+1, title, len(result.Comments))
		}
	}

	// 4. Walk a comment tree
	if comments != nil && len(comments.Comments) > 0 {
		fmt.Println("\n4. Comment tree statistics:")
		tree := snoo.NewCommentTree(comments.Comments)
		fmt.Printf("   Total comments: %d, max depth: %d\n", tree.Count(), tree.GetDepth())
	}
}
