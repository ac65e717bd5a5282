// Command admin is the operations CLI for claim review. It talks straight
// to PostgreSQL and needs neither Redis nor the HTTP API, so an operator can
// clear the review queue even when the service is down.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"campusconnect/backend/internal/config"
	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	env := config.LoadEnv()

	db, err := gorm.Open(postgres.Open(env.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewStorageService(db, nil) // No redis needed for the CLI

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "list-pending":
		if err := listPending(ctx, store); err != nil {
			log.Fatalf("Error listing pending claims: %v", err)
		}

	case "approve":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin approve <claim_id>")
			os.Exit(1)
		}
		if err := review(ctx, store, os.Args[2], models.ClaimApproved); err != nil {
			log.Fatalf("Error approving claim: %v", err)
		}
		fmt.Printf("Claim %s approved; item handed over.\n", os.Args[2])

	case "reject":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin reject <claim_id>")
			os.Exit(1)
		}
		if err := review(ctx, store, os.Args[2], models.ClaimRejected); err != nil {
			log.Fatalf("Error rejecting claim: %v", err)
		}
		fmt.Printf("Claim %s rejected; item returned to the pool.\n", os.Args[2])

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: admin <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  list-pending            List claims awaiting review")
	fmt.Println("  approve <claim_id>      Approve a claim and mark the item claimed")
	fmt.Println("  reject <claim_id>       Reject a claim and return the item to the pool")
}

func listPending(ctx context.Context, store *storage.Service) error {
	claims, err := store.FindClaims(ctx, models.ClaimFilter{Status: models.ClaimPending})
	if err != nil {
		return err
	}

	if len(claims) == 0 {
		fmt.Println("No pending claims.")
		return nil
	}

	for _, c := range claims {
		fmt.Printf("%s  item=%s  %s <%s>  score=%d%%  risk=%s\n    %s\n",
			c.ID, c.ItemID, c.ClaimerName, c.ClaimerEmail, c.OverallScore, c.RiskLevel, c.Summary)
	}
	fmt.Printf("%d pending claim(s).\n", len(claims))
	return nil
}

func review(ctx context.Context, store *storage.Service, claimID, status string) error {
	claim, err := store.GetClaimByID(ctx, claimID)
	if err != nil {
		return err
	}
	if claim == nil {
		return fmt.Errorf("claim %s not found", claimID)
	}

	if err := store.UpdateClaimStatus(ctx, claimID, status); err != nil {
		return err
	}

	itemStatus := models.ItemAvailable
	if status == models.ClaimApproved {
		itemStatus = models.ItemClaimed
	}
	return store.UpdateItemStatus(ctx, claim.ItemID, itemStatus)
}
