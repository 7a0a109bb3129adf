package rope

// Assoc is the association bias used when mapping a position through a
// Transaction: whether an empty range anchored exactly at an edit
// boundary should stick to the text before or after the edit.
type Assoc int

const (
	AssocBefore Assoc = iota
	AssocAfter
)

// segment describes one contiguous span of the pre-image mapped into the
// post-image: [oldFrom, oldTo) maps to a newBase position. delta
// disambiguates: 0 means a retain (newPos = newBase + (old-oldFrom));
// -1 means a delete (everything in the span maps to newBase); >0 means
// an insert of that many new chars.
type segment struct {
	oldFrom, oldTo int
	newBase        int
	delta          int
}

// PosMap translates pre-image char positions into post-image char
// positions, honoring Assoc at boundaries.
type PosMap struct {
	segments []segment
}

// Map translates pos through the transaction. At a boundary shared by
// two segments (the end of a retain and the start of an insert or
// delete) AssocBefore sticks with the earlier segment and AssocAfter
// defers to the later one, so a cursor at an insertion point ends up
// after the inserted text.
func (pm *PosMap) Map(pos int, assoc Assoc) int {
	for i, seg := range pm.segments {
		last := i == len(pm.segments)-1
		switch {
		case seg.delta == -1: // deleted span
			if pos >= seg.oldFrom && pos < seg.oldTo {
				return seg.newBase
			}
			if pos == seg.oldTo && (assoc == AssocBefore || last) {
				return seg.newBase
			}
		case seg.delta == 0: // retain
			if pos >= seg.oldFrom && pos < seg.oldTo {
				return seg.newBase + (pos - seg.oldFrom)
			}
			if pos == seg.oldTo && (assoc == AssocBefore || last) {
				return seg.newBase + (pos - seg.oldFrom)
			}
		default: // insert at seg.oldFrom (== seg.oldTo)
			if pos == seg.oldFrom {
				if assoc == AssocBefore {
					return seg.newBase
				}
				return seg.newBase + seg.delta
			}
		}
	}
	if len(pm.segments) == 0 {
		return pos
	}
	last := pm.segments[len(pm.segments)-1]
	if last.delta > 0 {
		return last.newBase + last.delta
	}
	return last.newBase
}
