/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package cqlite is an embeddable, pattern-matching graph database: nodes
and edges addressed by a small query language, stored through a
pluggable key-value engine and optionally authenticated by a Merkle
vault. Graph is the single entry point, the same "one handle, layered
subpackages underneath" shape the teacher's graph.Manager presents over
graphstorage/rules/eql.
*/
package cqlite

import (
	"path/filepath"

	"github.com/krotik/cqlite/kv"
	"github.com/krotik/cqlite/store"
	"github.com/krotik/cqlite/vault"
)

/*
Graph is an open database: one store, one vault, zero or more live
transactions.
*/
type Graph struct {
	store  *store.Store
	engine kv.Engine
	vault  vault.Vault

	vaultEngine kv.Engine // only set when a sibling Merkle store was opened
}

/*
config collects the options Open/OpenAnon were called with.
*/
type config struct {
	vault     vault.Vault
	hasher    vault.Hasher
	useVault  bool
	vaultPath string
}

/*
Option configures Open/OpenAnon. The zero value runs unauthenticated,
matching the teacher's preference for small always-present
collaborators over nil-checked optional ones (c.f. vault.NopVault).
*/
type Option func(*config)

/*
WithVault turns on record authentication through a sparse Merkle tree
persisted alongside the main store. For Open(path), the tree is stored
in a sibling "<path>.merkle" directory; for OpenAnon, it is in-memory.
*/
func WithVault() Option {
	return func(c *config) { c.useVault = true }
}

/*
WithHasher overrides the default SHA-256 content hasher used by a
vault enabled with WithVault.
*/
func WithHasher(h vault.Hasher) Option {
	return func(c *config) { c.hasher = h }
}

func applyOptions(opts []Option) *config {
	c := &config{hasher: vault.DefaultHasher}
	for _, o := range opts {
		o(c)
	}
	return c
}

/*
Open opens or creates a file-backed database rooted at dir, using
Badger as the underlying key-value engine.
*/
func Open(dir string, opts ...Option) (*Graph, error) {
	c := applyOptions(opts)

	engine, err := kv.OpenBadger(dir)
	if err != nil {
		return nil, err
	}

	g := &Graph{engine: engine}

	v, err := resolveVault(c, func() (kv.Engine, error) {
		return kv.OpenBadger(filepath.Clean(dir) + ".merkle")
	})
	if err != nil {
		engine.Close()
		return nil, err
	}
	g.vaultEngine = v.engine
	g.vault = v.vault

	s, err := store.Open(engine, v.vault)
	if err != nil {
		engine.Close()
		return nil, err
	}
	g.store = s

	return g, nil
}

/*
OpenAnon opens a throwaway, fully in-memory database: no files are
created, and the database (and any vault state) disappears on Close.
Used for tests and short-lived scratch graphs.
*/
func OpenAnon(opts ...Option) (*Graph, error) {
	c := applyOptions(opts)

	engine := kv.NewMemory()
	g := &Graph{engine: engine}

	v, err := resolveVault(c, func() (kv.Engine, error) {
		return kv.NewMemory(), nil
	})
	if err != nil {
		return nil, err
	}
	g.vaultEngine = v.engine
	g.vault = v.vault

	s, err := store.Open(engine, v.vault)
	if err != nil {
		return nil, err
	}
	g.store = s

	return g, nil
}

/*
Signature returns the current root hash of the authentication tree and
whether any record has ever been authenticated. Always (nil, false) for
a Graph opened without WithVault.
*/
func (g *Graph) Signature() ([]byte, bool) {
	return g.vault.Signature()
}

type resolvedVault struct {
	vault  vault.Vault
	engine kv.Engine // nil when unauthenticated
}

func resolveVault(c *config, openVaultEngine func() (kv.Engine, error)) (resolvedVault, error) {
	if !c.useVault {
		return resolvedVault{vault: vault.NopVault{}}, nil
	}

	ve, err := openVaultEngine()
	if err != nil {
		return resolvedVault{}, err
	}

	dv, err := vault.NewDefaultVault(ve, c.hasher)
	if err != nil {
		ve.Close()
		return resolvedVault{}, err
	}

	return resolvedVault{vault: dv, engine: ve}, nil
}

/*
Prepare parses, plans and compiles queryText into a reusable Statement.
Prepare itself never touches the store: it is pure with respect to
database state, so the same Statement may be shared across many
concurrent Query/Execute calls, each against its own transaction.
*/
func (g *Graph) Prepare(queryText string) (*Statement, error) {
	return prepare(queryText)
}

/*
Txn opens a read transaction against this graph.
*/
func (g *Graph) Txn() *Txn {
	return &Txn{inner: g.store.Txn()}
}

/*
MutTxn opens a write transaction against this graph. Only one may be
live at a time.
*/
func (g *Graph) MutTxn() (*Txn, error) {
	t, err := g.store.MutTxn()
	if err != nil {
		return nil, err
	}
	return &Txn{inner: t}, nil
}

/*
Close releases the underlying storage engines.
*/
func (g *Graph) Close() error {
	err := g.engine.Close()
	if g.vaultEngine != nil {
		if verr := g.vaultEngine.Close(); err == nil {
			err = verr
		}
	}
	return err
}
