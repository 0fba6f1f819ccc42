/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package console implements a line-oriented command processor for an
in-process *cqlite.Graph, following the teacher's console package shape
(a map of Command name to Command, each Command self-describing via
Name/ShortDescription/LongDescription and executed through a narrow
capability interface) - trimmed to the handful of commands that make
sense without a server to dial: the teacher's console is an HTTP client
to a running EliasDB, this one talks to a Graph sitting in the same
process.
*/
package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/krotik/cqlite"
)

/*
Command describes one available console command.
*/
type Command interface {
	Name() string
	ShortDescription() string
	LongDescription() string
	Run(args []string, capi API) error
}

/*
API is the capability surface a Command may use. It deliberately has no
network or credential concepts, unlike the teacher's CommandConsoleAPI,
since an in-process Graph has no server boundary to authenticate across.
*/
type API interface {
	Out() io.Writer
	Graph() *cqlite.Graph
	SetGraph(*cqlite.Graph)
	Path() string
	SetPath(string)
	Statement() *cqlite.Statement
	SetStatement(*cqlite.Statement)
}

/*
Console dispatches command lines to registered Commands.
*/
type Console struct {
	out  io.Writer
	g    *cqlite.Graph
	path string
	stmt *cqlite.Statement

	cmds map[string]Command
}

/*
New creates a Console with the default command set, writing output to
out.
*/
func New(out io.Writer) *Console {
	c := &Console{out: out, cmds: make(map[string]Command)}

	c.register(&CmdOpen{})
	c.register(&CmdInfo{})
	c.register(&CmdPrepare{})
	c.register(&CmdRun{})
	c.register(&CmdHelp{})
	c.register(&CmdQuit{})

	return c
}

func (c *Console) register(cmd Command) {
	c.cmds[cmd.Name()] = cmd
}

func (c *Console) Out() io.Writer                    { return c.out }
func (c *Console) Graph() *cqlite.Graph              { return c.g }
func (c *Console) SetGraph(g *cqlite.Graph)          { c.g = g }
func (c *Console) Path() string                      { return c.path }
func (c *Console) SetPath(p string)                  { c.path = p }
func (c *Console) Statement() *cqlite.Statement      { return c.stmt }
func (c *Console) SetStatement(s *cqlite.Statement)  { c.stmt = s }

/*
Commands returns every registered command, sorted by name.
*/
func (c *Console) Commands() []Command {
	var out []Command
	for _, cmd := range c.cmds {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

/*
ErrQuit is returned by Run when the "quit" command was issued; the
caller's REPL loop should exit on seeing it.
*/
var ErrQuit = fmt.Errorf("quit")

/*
Run executes one command line.
*/
func (c *Console) Run(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name, args := fields[0], fields[1:]

	cmd, ok := c.cmds[name]
	if !ok {
		return fmt.Errorf("unknown command: %s (try 'help')", name)
	}

	return cmd.Run(args, c)
}
