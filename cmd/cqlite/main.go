/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Command cqlite is a minimal interactive shell over an in-process
cqlite.Graph: open, prepare, run, info, help, quit.
*/
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/krotik/cqlite/console"
)

func main() {
	c := console.New(os.Stdout)
	defer func() {
		if g := c.Graph(); g != nil {
			g.Close()
		}
	}()

	fmt.Println("cqlite - embeddable pattern-matching graph database")
	fmt.Println("Type 'help' for a list of commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("cqlite> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		if err := c.Run(scanner.Text()); err != nil {
			if err == console.ErrQuit {
				return
			}
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}
