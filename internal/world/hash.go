package world

import "hash/fnv"

// StringHash is the 32-bit FNV-1a hash of s. Scripts and scene files use it
// to turn names into stable numeric keys.
func StringHash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
