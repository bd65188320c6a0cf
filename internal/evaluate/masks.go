package evaluate

const (
	// cornerMask holds a1, h1, a8 and h8.
	cornerMask uint64 = 1<<0 | 1<<7 | 1<<56 | 1<<63

	// xSquareMask holds the squares diagonally adjacent to a corner.
	xSquareMask uint64 = 1<<9 | 1<<14 | 1<<49 | 1<<54

	// cSquareMask holds the squares orthogonally adjacent to a corner.
	cSquareMask uint64 = 1<<1 | 1<<8 | 1<<6 | 1<<15 | 1<<48 | 1<<57 | 1<<55 | 1<<62

	// borderMask holds all squares on the outer ring.
	borderMask uint64 = 0xFF818181818181FF

	// edgeMask holds the border squares that are neither corners nor C-squares.
	edgeMask = borderMask &^ (cornerMask | cSquareMask)

	// centerMask holds the central 4x4 block.
	centerMask uint64 = 0x00003C3C3C3C0000
)

const (
	notAFile uint64 = 0xFEFEFEFEFEFEFEFE
	notHFile uint64 = 0x7F7F7F7F7F7F7F7F
)

// adjacent returns all squares that touch a square in x, horizontally, vertically or diagonally.
func adjacent(x uint64) uint64 {
	// Shifting towards higher columns must not wrap into column a, and vice versa.
	right := (x << 1) & notAFile
	left := (x >> 1) & notHFile

	row := x | right | left
	return right | left | (row << 8) | (row >> 8)
}
