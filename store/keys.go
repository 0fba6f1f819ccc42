/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package store

/*
Single-byte namespace prefixes for the four keyed spaces plus the
metadata namespace holding the id sequence and the magic/version
record.
*/
const (
	nsNode      byte = 'N'
	nsEdge      byte = 'E'
	nsOriginAdj byte = 'O'
	nsTargetAdj byte = 'T'
	nsMeta      byte = 'M'
)

var metaSeqKey = []byte{nsMeta, 's', 'e', 'q'}
var metaMagicKey = []byte{nsMeta, 'm', 'a', 'g', 'i', 'c'}

var magic = []byte("cqlite\x00")
var version byte = 1

func idKey(ns byte, id uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = ns
	buf[1] = byte(id >> 56)
	buf[2] = byte(id >> 48)
	buf[3] = byte(id >> 40)
	buf[4] = byte(id >> 32)
	buf[5] = byte(id >> 24)
	buf[6] = byte(id >> 16)
	buf[7] = byte(id >> 8)
	buf[8] = byte(id)
	return buf
}

func idFromKey(key []byte) uint64 {
	return uint64(key[1])<<56 | uint64(key[2])<<48 | uint64(key[3])<<40 | uint64(key[4])<<32 |
		uint64(key[5])<<24 | uint64(key[6])<<16 | uint64(key[7])<<8 | uint64(key[8])
}

func nodeKey(id uint64) []byte      { return idKey(nsNode, id) }
func edgeKey(id uint64) []byte      { return idKey(nsEdge, id) }
func originAdjKey(id uint64) []byte { return idKey(nsOriginAdj, id) }
func targetAdjKey(id uint64) []byte { return idKey(nsTargetAdj, id) }
