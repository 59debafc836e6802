// Команда adminhash печатает bcrypt-хеш пароля администратора для ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/password"
)

func main() {
	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "cannot read password:", err)
		os.Exit(1)
	}

	hash, err := password.GetHash(strings.TrimRight(line, "\r\n"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot hash password:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
