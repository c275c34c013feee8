package tetris

// Rotate turns piece clockwise when direction >= 0 and counter-clockwise
// otherwise. The turned grid is tried at every kick candidate of the
// transition in table order; the first placement that fits wins. When none
// fits the rotation is rejected and ok is false. For every type but O the
// first candidate is the current anchor. O has a single candidate that moves
// its grid back under the 2x2 block, so an O never shifts when it turns.
func Rotate(direction int, piece Piece, board *Board) (rotated Piece, ok bool) {
	turned := piece.Rotated(direction >= 0)
	for _, kick := range KickOffsets(piece.Type, piece.Rotation, turned.Rotation) {
		candidate := turned.Moved(kick)
		if board.Fits(candidate) {
			return candidate, true
		}
	}
	return piece, false
}
