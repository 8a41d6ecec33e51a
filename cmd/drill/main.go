// Package main implements drill, an interactive terminal client that runs
// review sessions against a card service. It authenticates, loads one
// category, and loops: show question, read guess, show feedback.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/parlo-app/parlo-api/internal/config"
	"github.com/parlo-app/parlo-api/internal/platform/logger"
	"github.com/parlo-app/parlo-api/internal/platform/rest"
	"github.com/parlo-app/parlo-api/internal/session"
	"github.com/parlo-app/parlo-api/internal/store"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "drill: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	pflag.String("server", "", "base URL of the card service (overrides PARLO_CLIENT_BASE_URL)")
	pflag.String("email", "", "account email")
	pflag.String("category", "", "category to review")
	pflag.Duration("advance-delay", session.DefaultAdvanceDelay, "pause after a correct answer before the next card")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The drill UI owns stdout; keep logs quiet unless something breaks.
	log, err := logger.Setup(logger.Config{Level: "warn"})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	baseURL := viper.GetString("server")
	if baseURL == "" {
		baseURL = cfg.Client.BaseURL
	}
	if baseURL == "" {
		return fmt.Errorf("no server URL: pass --server or set PARLO_CLIENT_BASE_URL")
	}

	email := viper.GetString("email")
	if email == "" {
		return fmt.Errorf("no account email: pass --email")
	}

	category := viper.GetString("category")
	if category == "" {
		return fmt.Errorf("no category: pass --category")
	}

	password := os.Getenv("PARLO_PASSWORD")
	reader := bufio.NewReader(os.Stdin)
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	timeout := time.Duration(cfg.Client.TimeoutSeconds) * time.Second

	ctx := context.Background()
	cred, err := rest.Login(ctx, baseURL, email, password, timeout)
	if err != nil {
		if errors.Is(err, store.ErrUnauthorized) {
			return fmt.Errorf("login rejected: check email and password")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	client := rest.NewClient(baseURL, rest.StaticToken(cred.Token), log, rest.WithTimeout(timeout))

	sess := session.New(client, client, cred.UserID, log,
		session.WithAdvanceDelay(viper.GetDuration("advance-delay")))
	defer sess.Close()

	if err := sess.LoadCategory(ctx, category); err != nil {
		if errors.Is(err, session.ErrEmptyCategory) {
			fmt.Printf("No cards in category %q. Add some and come back.\n", category)
			return nil
		}
		if errors.Is(err, store.ErrUnauthorized) {
			return fmt.Errorf("session rejected: log in again")
		}
		return fmt.Errorf("failed to start session: %w", err)
	}

	fmt.Printf("Reviewing %q. Type your answer, /stats for progress, /quit to stop.\n\n", category)

	return loop(ctx, sess, reader, log)
}

// loop runs the read-answer-show-feedback cycle until the user quits.
func loop(ctx context.Context, sess *session.Session, reader *bufio.Reader, log *slog.Logger) error {
	for {
		card := sess.Current()
		if card == nil {
			fmt.Println("No cards left to review.")
			return nil
		}

		fmt.Printf("[level %d] %s\n", card.Level, card.Question)
		if !sess.AnswerHidden() {
			fmt.Printf("  answer: %s\n", card.Answer)
		}
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF: treat like /quit.
			fmt.Println()
			printStats(sess)
			return nil
		}
		input := strings.TrimSpace(line)

		switch input {
		case "/quit", "/q":
			printStats(sess)
			return nil
		case "/stats":
			printStats(sess)
			continue
		case "":
			continue
		}

		result, err := sess.SubmitAnswer(ctx, input)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrNotSaved):
				fmt.Println(sess.Feedback())
				continue
			case errors.Is(err, session.ErrNoActiveCard):
				continue
			case errors.Is(err, store.ErrUnauthorized):
				return fmt.Errorf("session rejected mid-review: log in again")
			default:
				log.Error("submit failed", slog.String("error", err.Error()))
				continue
			}
		}

		fmt.Println(sess.Feedback())
		if result.Correct && result.Saved {
			// Let the feedback sit for the advance delay, matching when the
			// session moves to the next card.
			time.Sleep(viper.GetDuration("advance-delay"))
		}
		fmt.Println()
	}
}

func printStats(sess *session.Session) {
	stats := sess.Stats()
	fmt.Println("Session stats:")
	for level := 1; level <= 5; level++ {
		fmt.Printf("  level %d: %d card(s)\n", level, stats.Histogram[level])
	}
	if pct, ok := stats.Accuracy(); ok {
		fmt.Printf("  answers: %d correct, %d incorrect (%.2f%%)\n", stats.Correct, stats.Incorrect, pct)
	} else {
		fmt.Printf("  answers: none yet\n")
	}
}
