package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"jobdesk/internal/adapter/repo"
	"jobdesk/internal/domain"
	"jobdesk/internal/quota"
)

func main() {
	var (
		accountFlag string
		planFlag    string
		showFlag    bool
	)

	flag.StringVar(&accountFlag, "account", "", "account ID to inspect or update")
	flag.StringVar(&planFlag, "plan", "", "plan to assign (free, pro, enterprise); omit to only inspect")
	flag.BoolVar(&showFlag, "show", false, "print the subscription without changing it")
	flag.Parse()

	accountID := strings.TrimSpace(accountFlag)
	if accountID == "" {
		exitWithError(errors.New("-account is required"))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	mgr := quota.NewManager(repo.NewSubscriptionRepository(pool))

	if planFlag == "" || showFlag {
		decision, err := mgr.CanPost(ctx, accountID)
		if err != nil {
			exitWithError(fmt.Errorf("failed to load subscription: %w", err))
		}
		printSubscription(decision.Subscription)
		if planFlag == "" {
			return
		}
	}

	plan, err := domain.ParsePlan(planFlag)
	if err != nil {
		exitWithError(fmt.Errorf("unsupported plan %q", planFlag))
	}

	sub, err := mgr.Upgrade(ctx, accountID, plan)
	if err != nil {
		exitWithError(fmt.Errorf("failed to update plan: %w", err))
	}

	fmt.Printf("Account %s updated to plan %s\n", sub.AccountID, sub.Plan)
	printSubscription(sub)
}

func printSubscription(sub *domain.Subscription) {
	fmt.Printf("plan=%s\n", sub.Plan)
	fmt.Printf("post_limit=%d\n", sub.PostLimit)
	fmt.Printf("posts_used=%d\n", sub.PostsUsed)
	fmt.Printf("remaining=%d\n", sub.Remaining())
	fmt.Printf("period_start=%s\n", sub.PeriodStart.UTC().Format("2006-01-02"))
	if sub.ActiveUntil != nil {
		fmt.Printf("active_until=%s\n", sub.ActiveUntil.UTC().Format(time.RFC3339))
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
