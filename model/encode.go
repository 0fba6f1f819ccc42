/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package model

import (
	"fmt"
	"math"
)

/*
Package-level property tags. Each is the leading byte of one encoded
Property (records themselves lead with recordTagNode/recordTagEdge),
following the teacher's length-prefixed (tag, payload)
field discipline (storage/file/record.go) rather than a generic
serialization library: the store and the vault both need full control
over the exact byte layout, since the vault hashes these bytes verbatim.
*/
const (
	tagPropNull byte = iota
	tagPropInt
	tagPropReal
	tagPropBool
	tagPropText
	tagPropBlob
)

const (
	recordTagNode byte = 'N'
	recordTagEdge byte = 'E'
)

func putUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func getUint32(buf []byte, pos int) (uint32, int, error) {
	if pos+4 > len(buf) {
		return 0, pos, fmt.Errorf("truncated record: expected 4 bytes at %d, have %d", pos, len(buf)-pos)
	}
	v := uint32(buf[pos])<<24 | uint32(buf[pos+1])<<16 | uint32(buf[pos+2])<<8 | uint32(buf[pos+3])
	return v, pos + 4, nil
}

func putUint64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func getUint64(buf []byte, pos int) (uint64, int, error) {
	if pos+8 > len(buf) {
		return 0, pos, fmt.Errorf("truncated record: expected 8 bytes at %d, have %d", pos, len(buf)-pos)
	}
	v := uint64(buf[pos])<<56 | uint64(buf[pos+1])<<48 | uint64(buf[pos+2])<<40 | uint64(buf[pos+3])<<32 |
		uint64(buf[pos+4])<<24 | uint64(buf[pos+5])<<16 | uint64(buf[pos+6])<<8 | uint64(buf[pos+7])
	return v, pos + 8, nil
}

func putString(buf []byte, s string) []byte {
	buf = putUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func getString(buf []byte, pos int) (string, int, error) {
	n, pos, err := getUint32(buf, pos)
	if err != nil {
		return "", pos, err
	}
	if pos+int(n) > len(buf) {
		return "", pos, fmt.Errorf("truncated record: expected %d string bytes at %d, have %d", n, pos, len(buf)-pos)
	}
	return string(buf[pos : pos+int(n)]), pos + int(n), nil
}

/*
EncodeProperty appends the canonical encoding of p to buf and returns the
extended slice.
*/
func EncodeProperty(buf []byte, p Property) []byte {
	switch p.Kind() {
	case KindNull:
		return append(buf, tagPropNull)
	case KindInt:
		buf = append(buf, tagPropInt)
		return putUint64(buf, uint64(p.AsInt()))
	case KindReal:
		buf = append(buf, tagPropReal)
		return putUint64(buf, math.Float64bits(p.AsReal()))
	case KindBool:
		buf = append(buf, tagPropBool)
		if p.AsBool() {
			return append(buf, 1)
		}
		return append(buf, 0)
	case KindText:
		buf = append(buf, tagPropText)
		return putString(buf, p.AsText())
	case KindBlob:
		buf = append(buf, tagPropBlob)
		buf = putUint32(buf, uint32(len(p.AsBlob())))
		return append(buf, p.AsBlob()...)
	}
	return append(buf, tagPropNull)
}

/*
DecodeProperty reads a Property previously written by EncodeProperty from
buf at pos, returning the value and the position immediately after it.
*/
func DecodeProperty(buf []byte, pos int) (Property, int, error) {
	if pos >= len(buf) {
		return Null, pos, fmt.Errorf("truncated record: missing property tag at %d", pos)
	}
	tag := buf[pos]
	pos++

	switch tag {
	case tagPropNull:
		return Null, pos, nil
	case tagPropInt:
		v, pos, err := getUint64(buf, pos)
		return Int(int64(v)), pos, err
	case tagPropReal:
		v, pos, err := getUint64(buf, pos)
		return Real(math.Float64frombits(v)), pos, err
	case tagPropBool:
		if pos >= len(buf) {
			return Null, pos, fmt.Errorf("truncated record: missing bool byte at %d", pos)
		}
		return Bool(buf[pos] != 0), pos + 1, nil
	case tagPropText:
		s, pos, err := getString(buf, pos)
		return Text(s), pos, err
	case tagPropBlob:
		n, pos, err := getUint32(buf, pos)
		if err != nil {
			return Null, pos, err
		}
		if pos+int(n) > len(buf) {
			return Null, pos, fmt.Errorf("truncated record: expected %d blob bytes at %d, have %d", n, pos, len(buf)-pos)
		}
		blob := make([]byte, n)
		copy(blob, buf[pos:pos+int(n)])
		return Blob(blob), pos + int(n), nil
	}

	return Null, pos, fmt.Errorf("corrupt record: unknown property tag %d at %d", tag, pos-1)
}

func encodeProps(buf []byte, keys []string, props map[string]Property) []byte {
	buf = putUint32(buf, uint32(len(keys)))
	for _, k := range keys {
		buf = putString(buf, k)
		buf = EncodeProperty(buf, props[k])
	}
	return buf
}

func decodeProps(buf []byte, pos int) (map[string]Property, int, error) {
	n, pos, err := getUint32(buf, pos)
	if err != nil {
		return nil, pos, err
	}
	props := make(map[string]Property, n)
	for i := uint32(0); i < n; i++ {
		var key string
		var val Property
		if key, pos, err = getString(buf, pos); err != nil {
			return nil, pos, err
		}
		if val, pos, err = DecodeProperty(buf, pos); err != nil {
			return nil, pos, err
		}
		props[key] = val
	}
	return props, pos, nil
}

/*
EncodeNode produces the canonical byte encoding of a Node: a leading tag,
the id, the label and the properties in sorted-key order so that two
independently constructed stores that accept the same committed node
produce byte-identical records.
*/
func EncodeNode(n *Node) []byte {
	buf := make([]byte, 0, 32+16*len(n.Properties))
	buf = append(buf, recordTagNode)
	buf = putUint64(buf, n.ID)
	buf = putString(buf, n.Label)
	buf = encodeProps(buf, n.SortedKeys(), n.Properties)
	return buf
}

/*
DecodeNode parses bytes previously produced by EncodeNode.
*/
func DecodeNode(buf []byte) (*Node, error) {
	if len(buf) == 0 || buf[0] != recordTagNode {
		return nil, fmt.Errorf("corrupt record: expected node tag, got %v", buf)
	}
	pos := 1
	id, pos, err := getUint64(buf, pos)
	if err != nil {
		return nil, err
	}
	label, pos, err := getString(buf, pos)
	if err != nil {
		return nil, err
	}
	props, _, err := decodeProps(buf, pos)
	if err != nil {
		return nil, err
	}
	return &Node{ID: id, Label: label, Properties: props}, nil
}

/*
EncodeEdge produces the canonical byte encoding of an Edge.
*/
func EncodeEdge(e *Edge) []byte {
	buf := make([]byte, 0, 48+16*len(e.Properties))
	buf = append(buf, recordTagEdge)
	buf = putUint64(buf, e.ID)
	buf = putString(buf, e.Label)
	buf = putUint64(buf, e.Origin)
	buf = putUint64(buf, e.Target)
	buf = encodeProps(buf, e.SortedKeys(), e.Properties)
	return buf
}

/*
DecodeEdge parses bytes previously produced by EncodeEdge.
*/
func DecodeEdge(buf []byte) (*Edge, error) {
	if len(buf) == 0 || buf[0] != recordTagEdge {
		return nil, fmt.Errorf("corrupt record: expected edge tag, got %v", buf)
	}
	pos := 1
	id, pos, err := getUint64(buf, pos)
	if err != nil {
		return nil, err
	}
	label, pos, err := getString(buf, pos)
	if err != nil {
		return nil, err
	}
	origin, pos, err := getUint64(buf, pos)
	if err != nil {
		return nil, err
	}
	target, pos, err := getUint64(buf, pos)
	if err != nil {
		return nil, err
	}
	props, _, err := decodeProps(buf, pos)
	if err != nil {
		return nil, err
	}
	return &Edge{ID: id, Label: label, Origin: origin, Target: target, Properties: props}, nil
}
