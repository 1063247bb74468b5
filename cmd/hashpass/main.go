// Command hashpass produces an argon2id hash suitable for the
// ADMIN_PASSWORD_HASH environment variable.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/httpserver"
)

func main() {
	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "read password: %v\n", err)
			os.Exit(1)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "password must not be empty")
		os.Exit(1)
	}

	hash, err := httpserver.HashPassword(password, httpserver.DefaultArgon2Params())
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
