package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campusbuzz/campusbuzz/internal/config"
	"github.com/campusbuzz/campusbuzz/internal/db"
	"github.com/campusbuzz/campusbuzz/internal/feed"
	"github.com/campusbuzz/campusbuzz/internal/log"
	"github.com/campusbuzz/campusbuzz/internal/models"
	"github.com/campusbuzz/campusbuzz/internal/session"
)

func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(cfg.DatabaseURL, db.Options{Debug: cfg.DBDebug})
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, posts and likes tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := openDB()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			log.Info.Println("Migrations complete.")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		numUsers int
		numPosts int
		password string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo users, posts and likes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := openDB()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			r := rand.New(rand.NewSource(time.Now().UnixNano()))
			start := time.Now()
			if err := seed(cmd.Context(), conn, r, numUsers, numPosts, password); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			log.Info.Printf("done in %s", time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().IntVar(&numUsers, "users", 10, "number of users")
	cmd.Flags().IntVar(&numPosts, "posts", 50, "number of posts")
	cmd.Flags().StringVar(&password, "password", "campusbuzz", "password given to every seeded user")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		userID uint
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user-id is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gate := session.NewGate(cfg.SessionSecret, cfg.LoginURL)
			token, err := gate.Issue(session.Identity{UserID: userID, UserName: name}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user-id", 0, "id of the user the token speaks for")
	cmd.Flags().StringVar(&name, "name", "User", "display name carried in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

var (
	firstNames = []string{"Aarav", "Priya", "Liam", "Sofia", "Kenji", "Amara", "Noah", "Zara", "Mateo", "Ines"}
	lastNames  = []string{"Sharma", "Okafor", "Nguyen", "Rossi", "Kim", "Haddad", "Silva", "Novak", "Mensah", "Berg"}
	snippets   = []string{
		"Midterm schedule posted on the notice board",
		"Anyone up for a study group in the library tonight?",
		"Cultural fest registrations close Friday",
		"Lost a blue water bottle near the canteen",
		"Looking for teammates for the robotics project",
		"Football trials this Saturday at 7am",
		"Guest lecture on distributed systems in Hall B",
	}
)

func seed(ctx context.Context, conn *gorm.DB, r *rand.Rand, numUsers, numPosts int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	stamp := time.Now().Unix()
	users := make([]models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		users = append(users, models.User{
			Name:         firstNames[r.Intn(len(firstNames))] + " " + lastNames[r.Intn(len(lastNames))],
			Email:        fmt.Sprintf("student%d.%d@campus.edu", stamp, i),
			PasswordHash: string(hash),
		})
	}
	if len(users) == 0 {
		return nil
	}
	if err := conn.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Info.Printf("seeded %d users", len(users))

	repo := feed.NewRepository(conn)
	likes := feed.NewLikeService(conn)
	for i := 0; i < numPosts; i++ {
		author := users[r.Intn(len(users))]
		tag := ""
		if r.Intn(4) > 0 {
			tag = feed.KnownTags[r.Intn(len(feed.KnownTags))]
		}
		post, err := repo.CreatePost(ctx, author.ID, snippets[r.Intn(len(snippets))], tag)
		if err != nil {
			return err
		}
		for _, u := range users {
			if r.Intn(3) == 0 {
				if _, err := likes.ToggleLike(ctx, u.ID, post.ID); err != nil {
					return err
				}
			}
		}
	}
	log.Info.Printf("seeded %d posts", numPosts)
	return nil
}
