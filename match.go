/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cqlite

import (
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/util"
)

/*
Match exposes one binding's return values by index, matching RETURN's
item order. It borrows its VM's bound state and is only valid until the
next call to Query.Step.
*/
type Match struct {
	m interface {
		Access(i int) (interface{}, error)
		NumReturns() int
	}
}

/*
Len returns the number of return items in this binding.
*/
func (m *Match) Len() int { return m.m.NumReturns() }

/*
Get returns the raw value at index i: a *Node, an *Edge, or a Property.
*/
func (m *Match) Get(i int) (interface{}, error) {
	return m.m.Access(i)
}

/*
Node returns the value at index i as a *Node, failing with a
RuntimeError if it is not one.
*/
func (m *Match) Node(i int) (*model.Node, error) {
	v, err := m.m.Access(i)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*model.Node)
	if !ok {
		return nil, util.NewRuntimeError("return value is not a node")
	}
	return n, nil
}

/*
Edge returns the value at index i as an *Edge, failing with a
RuntimeError if it is not one.
*/
func (m *Match) Edge(i int) (*model.Edge, error) {
	v, err := m.m.Access(i)
	if err != nil {
		return nil, err
	}
	e, ok := v.(*model.Edge)
	if !ok {
		return nil, util.NewRuntimeError("return value is not an edge")
	}
	return e, nil
}

/*
Property returns the value at index i as a Property, failing with a
RuntimeError if it is a node or edge instead.
*/
func (m *Match) Property(i int) (model.Property, error) {
	v, err := m.m.Access(i)
	if err != nil {
		return model.Null, err
	}
	p, ok := v.(model.Property)
	if !ok {
		return model.Null, util.NewRuntimeError("return value is not a property")
	}
	return p, nil
}

/*
Int returns the value at index i as an integer, failing with a
RuntimeError if it is not an integer-kinded property.
*/
func (m *Match) Int(i int) (int64, error) {
	p, err := m.Property(i)
	if err != nil {
		return 0, err
	}
	if p.Kind() != model.KindInt {
		return 0, util.NewRuntimeError("return value is not an integer")
	}
	return p.AsInt(), nil
}

/*
Real returns the value at index i as a real, failing with a
RuntimeError if it is not a real-kinded property.
*/
func (m *Match) Real(i int) (float64, error) {
	p, err := m.Property(i)
	if err != nil {
		return 0, err
	}
	if p.Kind() != model.KindReal {
		return 0, util.NewRuntimeError("return value is not a real")
	}
	return p.AsReal(), nil
}

/*
Bool returns the value at index i as a boolean, failing with a
RuntimeError if it is not a boolean-kinded property.
*/
func (m *Match) Bool(i int) (bool, error) {
	p, err := m.Property(i)
	if err != nil {
		return false, err
	}
	if p.Kind() != model.KindBool {
		return false, util.NewRuntimeError("return value is not a boolean")
	}
	return p.AsBool(), nil
}

/*
Text returns the value at index i as text, failing with a RuntimeError
if it is not a text-kinded property.
*/
func (m *Match) Text(i int) (string, error) {
	p, err := m.Property(i)
	if err != nil {
		return "", err
	}
	if p.Kind() != model.KindText {
		return "", util.NewRuntimeError("return value is not text")
	}
	return p.AsText(), nil
}
