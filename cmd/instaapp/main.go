// Command instaapp is a terminal client for the InstaApp API: authenticate,
// browse the feed, publish posts, like and comment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rulzi/instaapp-go/internal/api"
	"github.com/rulzi/instaapp-go/internal/feed"
	"github.com/rulzi/instaapp-go/internal/models"
	"github.com/rulzi/instaapp-go/internal/session"
	"github.com/rulzi/instaapp-go/internal/transport"
	"github.com/rulzi/instaapp-go/pkg/config"
)

const usage = `Usage: instaapp <command> [arguments]

Commands:
  register -name NAME -email EMAIL -password PASS
  login    -email EMAIL -password PASS
  logout
  whoami
  feed     [-pages N]
  post     -content TEXT [-image FILE]
  like     POST_ID
  unlike   POST_ID
  comment  POST_ID TEXT
  comments POST_ID
`

func main() {
	log.SetFlags(0)

	cfg := config.Load()
	client := buildClient(cfg)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	if err := run(ctx, client, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("instaapp: %v", err)
	}
}

// buildClient assembles the SDK: file-backed session store sharing a cookie
// jar with the transport, and the typed API client on top.
func buildClient(cfg *config.Config) *api.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("instaapp: %v", err)
	}
	sess := session.New(session.NewFileStore(cfg.TokenFile), jar, cfg.APIBaseURL)
	tr := transport.New(cfg.APIBaseURL, sess,
		transport.WithJar(jar),
		transport.WithTimeout(cfg.RequestTimeout),
	)
	return api.New(tr, sess)
}

func run(ctx context.Context, client *api.Client, command string, args []string) error {
	switch command {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)
		auth, err := client.Register(ctx, models.RegisterRequest{
			Name:                 *name,
			Email:                *email,
			Password:             *password,
			PasswordConfirmation: *password,
		})
		if err != nil {
			return describe(err)
		}
		fmt.Printf("registered as %s <%s>\n", auth.User.Name, auth.User.Email)
		return nil

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)
		auth, err := client.Login(ctx, models.LoginRequest{Email: *email, Password: *password})
		if err != nil {
			return describe(err)
		}
		fmt.Printf("logged in as %s\n", auth.User.Name)
		return nil

	case "logout":
		if err := client.Logout(ctx); err != nil {
			// The local credential is gone either way; report the remote
			// failure without treating it as fatal.
			fmt.Printf("logged out locally (server said: %v)\n", err)
			return nil
		}
		fmt.Println("logged out")
		return nil

	case "whoami":
		if !client.Session().IsAuthenticated() {
			return fmt.Errorf("not logged in")
		}
		user, err := client.GetProfile(ctx)
		if err != nil {
			return describe(err)
		}
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		return nil

	case "feed":
		fs := flag.NewFlagSet("feed", flag.ExitOnError)
		pages := fs.Int("pages", 1, "number of pages to load")
		fs.Parse(args)
		return showFeed(ctx, client, *pages)

	case "post":
		fs := flag.NewFlagSet("post", flag.ExitOnError)
		content := fs.String("content", "", "post text")
		image := fs.String("image", "", "image file to attach")
		fs.Parse(args)
		return createPost(ctx, client, *content, *image)

	case "like", "unlike":
		postID, err := argID(args)
		if err != nil {
			return err
		}
		if command == "like" {
			err = client.LikePost(ctx, postID)
		} else {
			err = client.UnlikePost(ctx, postID)
		}
		if err != nil {
			return describe(err)
		}
		fmt.Println("ok")
		return nil

	case "comment":
		postID, err := argID(args)
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: comment POST_ID TEXT")
		}
		comment, err := client.CreateComment(ctx, postID, models.CreateCommentRequest{Content: args[1]})
		if err != nil {
			return describe(err)
		}
		fmt.Printf("comment %d created\n", comment.ID)
		return nil

	case "comments":
		postID, err := argID(args)
		if err != nil {
			return err
		}
		comments, err := client.GetPostComments(ctx, postID)
		if err != nil {
			return describe(err)
		}
		for _, cm := range comments {
			fmt.Printf("[%d] %s: %s\n", cm.ID, cm.Author.Name, cm.Content)
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func showFeed(ctx context.Context, client *api.Client, pages int) error {
	f := feed.New(client, feed.DefaultPerPage)
	if err := f.Refresh(ctx); err != nil {
		return describe(err)
	}
	for i := 1; i < pages && f.HasMore(); i++ {
		if err := f.LoadMore(ctx); err != nil {
			return describe(err)
		}
	}
	for _, p := range f.Posts() {
		liked := " "
		if p.IsLiked {
			liked = "*"
		}
		fmt.Printf("[%d]%s %s: %s (%d likes, %d comments)\n",
			p.ID, liked, p.Author.Name, p.Content, p.LikesCount, p.CommentsCount)
	}
	cursor := f.Cursor()
	fmt.Printf("page %d/%d, %d posts total\n", cursor.CurrentPage, cursor.LastPage, cursor.Total)
	return nil
}

func createPost(ctx context.Context, client *api.Client, content, image string) error {
	req := models.CreatePostRequest{Content: content}
	if image == "" {
		post, err := client.CreatePost(ctx, req)
		if err != nil {
			return describe(err)
		}
		fmt.Printf("post %d created\n", post.ID)
		return nil
	}

	file, err := os.Open(image)
	if err != nil {
		return err
	}
	defer file.Close()
	post, err := client.CreatePostWithFile(ctx, req, transport.FileUpload{
		Field:   "image",
		Name:    filepath.Base(image),
		Content: file,
	})
	if err != nil {
		return describe(err)
	}
	fmt.Printf("post %d created\n", post.ID)
	return nil
}

func argID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing post id")
	}
	return strconv.ParseInt(args[0], 10, 64)
}

// describe expands an API error's field errors for terminal display.
func describe(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || len(apiErr.Errors) == 0 {
		return err
	}
	msg := apiErr.Message
	for field, issues := range apiErr.Errors {
		for _, issue := range issues {
			msg += fmt.Sprintf("\n  %s: %s", field, issue)
		}
	}
	return fmt.Errorf("%s", msg)
}
