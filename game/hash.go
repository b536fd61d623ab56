package game

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// Hash returns a fingerprint of the battle's visible structure: zones,
// resources, stack, prompt, turn, and dreamwell position. Two battles with
// equal hashes are interchangeable for speculation validation purposes.
func (b *Battle) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		d.Write(buf[:])
	}
	writeIDs := func(ids []CardID) {
		writeInt(len(ids))
		for _, id := range ids {
			writeInt(int(id))
		}
	}

	for _, c := range b.Cards {
		writeInt(int(c.Zone))
	}
	for p := range b.Players {
		ps := &b.Players[p]
		writeIDs(ps.Deck)
		writeIDs(ps.Hand)
		writeIDs(ps.Battlefield)
		writeIDs(ps.Void)
		writeInt(ps.CurrentEnergy)
		writeInt(ps.ProducedEnergy)
		writeInt(ps.Points)
	}
	writeInt(len(b.Stack))
	for _, item := range b.Stack {
		writeInt(int(item.Card))
		writeInt(int(item.Controller))
		if item.HasTarget {
			writeInt(int(item.Target))
		} else {
			writeInt(-1)
		}
	}
	if b.Prompt != nil {
		writeInt(int(b.Prompt.Kind))
		writeInt(int(b.Prompt.Player))
		writeIDs(b.Prompt.Valid)
	}
	writeInt(int(b.Turn.Active))
	writeInt(b.Turn.ID)
	writeInt(int(b.Phase))
	writeInt(b.Dreamwell.Position)
	writeInt(int(b.Status))
	return d.Sum64()
}
