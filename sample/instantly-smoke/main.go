package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
)

// Manual smoke test against a real platform account:
//
//	go run ./sample/instantly-smoke <campaign_id>
func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("usage: instantly-smoke <campaign_id>")
	}
	campaignID := os.Args[1]

	client := instantly.NewClient(os.Getenv("INSTANTLY_API_KEY"), os.Getenv("INSTANTLY_URL"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	leads, err := client.ListLeads(ctx, campaignID)
	if err != nil {
		log.Fatalf("❌ list leads: %v", err)
	}

	fmt.Printf("✅ campaign %s has %d leads\n", campaignID, len(leads))
	for i, lead := range leads {
		if i == 10 {
			fmt.Println("   ...")
			break
		}
		fmt.Printf("   %s  email=%s  linkedin=%s\n", lead.ID, lead.Email, lead.LinkedinID)
	}
}
