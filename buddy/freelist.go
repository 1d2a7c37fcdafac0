package buddy

import (
	"fmt"

	"github.com/joshuapare/buddykit/internal/format"
)

// freeLists is the per-order table of intrusive singly linked lists.
// heads is the caller's storage; the links live in mem.
//
// Nothing here detects corruption: pushing an address twice, or an address of
// the wrong order, silently poisons the table.
type freeLists struct {
	heads []Addr
	mem   []byte
	base  Addr
}

func (fl *freeLists) reset() {
	for i := range fl.heads {
		fl.heads[i] = NilAddr
	}
}

func (fl *freeLists) empty(order int) bool {
	return fl.heads[order] == NilAddr
}

// push prepends a to list order.
func (fl *freeLists) push(order int, a Addr) {
	fl.writeLink(a, fl.heads[order])
	fl.heads[order] = a
}

// pop removes and returns the head of list order.
func (fl *freeLists) pop(order int) (Addr, bool) {
	a := fl.heads[order]
	if a == NilAddr {
		return NilAddr, false
	}
	fl.heads[order] = fl.readLink(a)
	return a, true
}

// remove unlinks target from list order. It walks the list.
func (fl *freeLists) remove(order int, target Addr) bool {
	prev := NilAddr
	for cur := fl.heads[order]; cur != NilAddr; cur = fl.readLink(cur) {
		if cur != target {
			prev = cur
			continue
		}
		next := fl.readLink(cur)
		if prev == NilAddr {
			fl.heads[order] = next
		} else {
			fl.writeLink(prev, next)
		}
		return true
	}
	return false
}

// snapshot returns list order head first. limit bounds the walk so a
// corrupted (cyclic) list cannot hang the caller; ok is false when hit.
func (fl *freeLists) snapshot(order int, limit uint64) ([]Addr, bool) {
	var out []Addr
	for cur := fl.heads[order]; cur != NilAddr; cur = fl.readLink(cur) {
		if uint64(len(out)) >= limit {
			return out, false
		}
		out = append(out, cur)
	}
	return out, true
}

func (fl *freeLists) readLink(a Addr) Addr {
	next, err := format.ReadLink(fl.mem, uint64(a-fl.base))
	if err != nil {
		panic(fmt.Sprintf("buddy: free block 0x%X outside region: %v", uint64(a), err))
	}
	return Addr(next)
}

func (fl *freeLists) writeLink(a, next Addr) {
	if err := format.PutLink(fl.mem, uint64(a-fl.base), uint64(next)); err != nil {
		panic(fmt.Sprintf("buddy: free block 0x%X outside region: %v", uint64(a), err))
	}
}
