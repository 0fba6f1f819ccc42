/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cqlite

import "github.com/krotik/cqlite/util"

/*
Error is the single error type returned at every exit point of this
package's API, discriminated by Kind.
*/
type Error = util.Error

/*
Kind discriminates the class of an Error.
*/
type Kind = util.Kind

const (
	ParseErrorKind    = util.ParseErrorKind
	PlanErrorKind     = util.PlanErrorKind
	CompileErrorKind  = util.CompileErrorKind
	RuntimeErrorKind  = util.RuntimeErrorKind
	StoreErrorKind    = util.StoreErrorKind
	VaultErrorKind    = util.VaultErrorKind
	InternalErrorKind = util.InternalErrorKind
)
