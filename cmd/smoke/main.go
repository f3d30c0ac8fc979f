// Smoke test against a running API: creates a club and an event as an admin,
// joins and registers as a member, and checks the resulting counts. Needs the
// server running with the HS256 dev verifier so it can mint its own tokens.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"clubhub.org/internal/auth"
	"clubhub.org/internal/client"
	clubpkg "clubhub.org/internal/club"
	"clubhub.org/internal/event"
)

func main() {
	var (
		baseURL = flag.String("base-url", "http://localhost:8080", "API base URL")
		secret  = flag.String("secret", "dev-secret", "HS256 secret the server was started with")
		issuer  = flag.String("issuer", "clubhub", "Token issuer")
	)
	flag.Parse()

	verifier, err := auth.NewStaticVerifier([]byte(*secret), *issuer)
	if err != nil {
		log.Fatalf("verifier: %v", err)
	}

	run := rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
	adminID := fmt.Sprintf("smoke-admin-%d", run)
	memberID := fmt.Sprintf("smoke-member-%d", run)

	adminTok, err := verifier.SignToken(adminID, adminID+"@smoke.test", []string{"Admin"}, 10*time.Minute)
	if err != nil {
		log.Fatalf("sign admin token: %v", err)
	}
	memberTok, err := verifier.SignToken(memberID, memberID+"@smoke.test", nil, 10*time.Minute)
	if err != nil {
		log.Fatalf("sign member token: %v", err)
	}

	admin := client.New(*baseURL, adminTok)
	member := client.New(*baseURL, memberTok)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := admin.CreateProfile(ctx, adminID, adminID+"@smoke.test", ""); err != nil {
		log.Fatalf("create admin profile: %v", err)
	}
	if _, err := member.CreateProfile(ctx, memberID, memberID+"@smoke.test", ""); err != nil {
		log.Fatalf("create member profile: %v", err)
	}

	cl, err := admin.CreateClub(ctx, clubpkg.New{
		ClubName:    fmt.Sprintf("Smoke Club %d", run),
		Description: "created by the smoke test",
	})
	if err != nil {
		log.Fatalf("create club: %v", err)
	}
	log.Printf("created %s", cl.ClubID)

	ev, err := admin.CreateEvent(ctx, event.New{
		ClubID:          cl.ClubID,
		EventName:       "Smoke Night",
		Date:            time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		MaxParticipants: 5,
	})
	if err != nil {
		log.Fatalf("create event: %v", err)
	}
	log.Printf("created %s", ev.EventID)

	joined, err := member.JoinClub(ctx, cl.ClubID)
	if err != nil {
		log.Fatalf("join club: %v", err)
	}
	if joined.TotalMembers != 1 {
		log.Fatalf("totalMembers = %d, want 1", joined.TotalMembers)
	}
	if _, err := member.JoinClub(ctx, cl.ClubID); err == nil {
		log.Fatal("second join must conflict")
	}

	res, err := member.Register(ctx, ev.EventID)
	if err != nil {
		log.Fatalf("register: %v", err)
	}
	if res.Registration.UserID != memberID {
		log.Fatalf("registration userId = %s", res.Registration.UserID)
	}
	if _, err := member.Register(ctx, ev.EventID); err == nil {
		log.Fatal("second registration must conflict")
	}

	got, err := member.Event(ctx, ev.EventID)
	if err != nil {
		log.Fatalf("get event: %v", err)
	}
	if len(got.RegisteredUsers) != 1 {
		log.Fatalf("registeredUsers = %v, want one entry", got.RegisteredUsers)
	}

	if err := admin.DeleteClub(ctx, cl.ClubID); err != nil {
		log.Fatalf("delete club: %v", err)
	}

	log.Println("smoke OK")
}
