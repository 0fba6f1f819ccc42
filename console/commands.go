/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"fmt"

	"github.com/krotik/cqlite"
)

// Command: open
// ==============

/*
CmdOpen opens (or creates) a file-backed database, or an in-memory one
if no path is given.
*/
type CmdOpen struct{}

func (c *CmdOpen) Name() string { return "open" }

func (c *CmdOpen) ShortDescription() string {
	return "Opens a database (or an in-memory one if no path is given)."
}

func (c *CmdOpen) LongDescription() string {
	return "open <path>   Opens or creates a file-backed database at <path>.\n" +
		"open          Opens a throwaway in-memory database."
}

func (c *CmdOpen) Run(args []string, capi API) error {
	if g := capi.Graph(); g != nil {
		g.Close()
	}

	if len(args) == 0 {
		g, err := cqlite.OpenAnon()
		if err != nil {
			return err
		}
		capi.SetGraph(g)
		capi.SetPath("")
		fmt.Fprintln(capi.Out(), "Opened in-memory database")
		return nil
	}

	g, err := cqlite.Open(args[0])
	if err != nil {
		return err
	}
	capi.SetGraph(g)
	capi.SetPath(args[0])
	fmt.Fprintln(capi.Out(), "Opened database at", args[0])
	return nil
}

// Command: info
// =============

/*
CmdInfo reports the currently open database's path and signature.
*/
type CmdInfo struct{}

func (c *CmdInfo) Name() string { return "info" }

func (c *CmdInfo) ShortDescription() string {
	return "Displays information about the currently open database."
}

func (c *CmdInfo) LongDescription() string {
	return "Displays the current database's path and authentication signature, if any."
}

func (c *CmdInfo) Run(args []string, capi API) error {
	g := capi.Graph()
	if g == nil {
		return fmt.Errorf("no database open (try 'open')")
	}

	path := capi.Path()
	if path == "" {
		path = "<in-memory>"
	}
	fmt.Fprintln(capi.Out(), "Path:", path)

	if sig, ok := g.Signature(); ok {
		fmt.Fprintf(capi.Out(), "Signature: %x\n", sig)
	} else {
		fmt.Fprintln(capi.Out(), "Signature: <unauthenticated>")
	}
	return nil
}

// Command: prepare
// ================

/*
CmdPrepare parses, plans and compiles a query, storing it as the
console's current statement without running it.
*/
type CmdPrepare struct{}

func (c *CmdPrepare) Name() string { return "prepare" }

func (c *CmdPrepare) ShortDescription() string {
	return "Parses and compiles a query without running it."
}

func (c *CmdPrepare) LongDescription() string {
	return "prepare <query text>   Compiles <query text> and stores it as the current statement\n" +
		"for a later 'run' with no arguments."
}

func (c *CmdPrepare) Run(args []string, capi API) error {
	g := capi.Graph()
	if g == nil {
		return fmt.Errorf("no database open (try 'open')")
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: prepare <query text>")
	}

	stmt, err := g.Prepare(joinArgs(args))
	if err != nil {
		return err
	}
	capi.SetStatement(stmt)
	fmt.Fprintln(capi.Out(), "Statement prepared")
	return nil
}

// Command: run
// ============

/*
CmdRun runs a query against the open database: with arguments it
prepares and runs them ad hoc; with none, it re-runs the statement
last stored by 'prepare'. MATCH bindings are printed one per line;
write clauses (CREATE, SET, DELETE) commit automatically on success.
*/
type CmdRun struct{}

func (c *CmdRun) Name() string { return "run" }

func (c *CmdRun) ShortDescription() string {
	return "Runs a query against the open database."
}

func (c *CmdRun) LongDescription() string {
	return "run <query text>   Prepares and runs <query text>, printing every returned binding.\n" +
		"run                Re-runs the statement stored by the last 'prepare'.\n" +
		"Write clauses (CREATE, SET, DELETE) commit automatically on success."
}

func (c *CmdRun) Run(args []string, capi API) error {
	g := capi.Graph()
	if g == nil {
		return fmt.Errorf("no database open (try 'open')")
	}

	stmt := capi.Statement()
	if len(args) > 0 {
		var err error
		stmt, err = g.Prepare(joinArgs(args))
		if err != nil {
			return err
		}
	}
	if stmt == nil {
		return fmt.Errorf("no statement to run (give a query, or 'prepare' one first)")
	}

	txn, err := g.MutTxn()
	if err != nil {
		return err
	}

	q := stmt.Query(txn, nil)
	any := false
	for {
		m, ok, err := q.Step()
		if err != nil {
			txn.Rollback()
			return err
		}
		if !ok {
			break
		}
		any = true
		printMatch(capi, m)
	}

	if err := txn.Commit(); err != nil {
		return err
	}
	if !any {
		fmt.Fprintln(capi.Out(), "(no rows)")
	}
	return nil
}

func printMatch(capi API, m *cqlite.Match) {
	for i := 0; i < m.Len(); i++ {
		v, err := m.Get(i)
		if i > 0 {
			fmt.Fprint(capi.Out(), "\t")
		}
		if err != nil {
			fmt.Fprintf(capi.Out(), "<error: %v>", err)
			continue
		}
		switch val := v.(type) {
		case *cqlite.Node:
			fmt.Fprintf(capi.Out(), "(%d:%s)", val.ID, val.Label)
		case *cqlite.Edge:
			fmt.Fprintf(capi.Out(), "[%d:%s %d->%d]", val.ID, val.Label, val.Origin, val.Target)
		default:
			fmt.Fprintf(capi.Out(), "%v", val)
		}
	}
	fmt.Fprintln(capi.Out())
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}

// Command: help
// =============

/*
CmdHelp lists every registered command, or describes one by name.
*/
type CmdHelp struct{}

func (c *CmdHelp) Name() string { return "help" }

func (c *CmdHelp) ShortDescription() string {
	return "Displays descriptions of other commands."
}

func (c *CmdHelp) LongDescription() string {
	return "help          Lists every command with a short description.\n" +
		"help <name>   Shows the long description of <name>."
}

func (c *CmdHelp) Run(args []string, capi API) error {
	console, ok := capi.(*Console)
	if !ok {
		return fmt.Errorf("help is not available here")
	}

	if len(args) > 0 {
		for _, cmd := range console.Commands() {
			if cmd.Name() == args[0] {
				fmt.Fprintln(capi.Out(), cmd.LongDescription())
				return nil
			}
		}
		return fmt.Errorf("unknown command: %s", args[0])
	}

	for _, cmd := range console.Commands() {
		fmt.Fprintf(capi.Out(), "%-10s %s\n", cmd.Name(), cmd.ShortDescription())
	}
	return nil
}

// Command: quit
// =============

/*
CmdQuit signals the REPL loop to exit.
*/
type CmdQuit struct{}

func (c *CmdQuit) Name() string { return "quit" }

func (c *CmdQuit) ShortDescription() string {
	return "Closes the database and exits."
}

func (c *CmdQuit) LongDescription() string {
	return "Closes the open database, if any, and exits the console."
}

func (c *CmdQuit) Run(args []string, capi API) error {
	if g := capi.Graph(); g != nil {
		g.Close()
		capi.SetGraph(nil)
	}
	return ErrQuit
}
