package main

import (
	"flag"
	"fmt"
	"os"

	"nursing-home-backend/internal/config"
	"nursing-home-backend/internal/middleware"
	"nursing-home-backend/pkg/utils"
)

// Mints an access token signed with JWT_ACCESS_SECRET, for operators and
// integration tests. Staff tokens are normally issued by the identity service.
func main() {
	userID := flag.Uint("user", 0, "Staff user ID to embed in the token")
	role := flag.String("role", middleware.RoleStaff, "Role claim: admin or staff")
	flag.Parse()

	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "-user is required")
		flag.Usage()
		os.Exit(2)
	}
	if *role != middleware.RoleAdmin && *role != middleware.RoleStaff {
		fmt.Fprintf(os.Stderr, "unsupported role %q\n", *role)
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	utils.InitJWT(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry)

	token, err := utils.GenerateAccessToken(*userID, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
