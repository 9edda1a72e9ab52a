// Command hashpw prints bcrypt hashes for the given passwords, for seeding
// development databases.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"frutolandia/internal/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password> [password...]")
		os.Exit(2)
	}

	for _, password := range os.Args[1:] {
		hash, err := auth.HashPassword(password)
		if err != nil {
			logrus.Fatalf("hash password: %v", err)
		}
		if err := auth.CheckPassword(hash, password); err != nil {
			logrus.Fatalf("verify hash: %v", err)
		}
		fmt.Println(hash)
	}
}
