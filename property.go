/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cqlite

import "github.com/krotik/cqlite/model"

/*
Property is a tagged value: integer, real, boolean, text, blob or null.
*/
type Property = model.Property

/*
Node is an identified record with a label and a property mapping.
*/
type Node = model.Node

/*
Edge is an identified, directional record between two nodes.
*/
type Edge = model.Edge

var (
	// Null is the singular null Property.
	Null = model.Null

	// Int creates an integer Property.
	Int = model.Int

	// Real creates a real Property.
	Real = model.Real

	// Bool creates a boolean Property.
	Bool = model.Bool

	// Text creates a text Property.
	Text = model.Text

	// Blob creates a blob Property.
	Blob = model.Blob
)
