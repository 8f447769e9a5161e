// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"os/user"

	"futil/internal/compiler"
	"futil/repl"
)

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	fmt.Printf("Welcome to the FuTIL shell, %s!\n", currentUser.Username)
	fmt.Println("Type a namespace to see its IR, or :quit to leave.")
	repl.Start(repl.NewSession(compiler.Options{}))
}
