// Печатает bcrypt-хеш для ADMIN_PASSWORD_HASH.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"inventory-system/pkg/utils"
)

func main() {
	password := flag.String("password", "", "пароль администратора")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "использование: hashpassword -password <пароль>")
		os.Exit(2)
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Ошибка при генерации хеша: %v", err)
	}
	fmt.Println(hash)
}
