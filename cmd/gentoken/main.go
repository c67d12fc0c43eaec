// Command gentoken mints a locally signed ID token for development.
//
// The server must be running with LOCAL_AUTH_SECRET set to the same secret.
//
//	gentoken -uid alice -name "Alice" -secret "$LOCAL_AUTH_SECRET"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/raicdev/frea/internal/auth"
)

func main() {
	uid := flag.String("uid", "", "subject UID for the token")
	name := flag.String("name", "", "display name claim")
	picture := flag.String("picture", "", "avatar URL claim")
	secret := flag.String("secret", os.Getenv("LOCAL_AUTH_SECRET"), "shared HS256 secret (defaults to LOCAL_AUTH_SECRET)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *uid == "" {
		log.Fatalf("please provide a user UID using the -uid flag")
	}
	if *secret == "" {
		log.Fatalf("please provide a secret via -secret or LOCAL_AUTH_SECRET")
	}

	verifier, err := auth.NewLocalVerifier(*secret)
	if err != nil {
		log.Fatalf("creating verifier: %v", err)
	}

	token, err := verifier.Mint(*uid, *name, *picture, *ttl)
	if err != nil {
		log.Fatalf("minting token: %v", err)
	}

	fmt.Println(token)
}
