package othello

import (
	"fmt"
	"math/bits"
	"math/rand"
)

const (
	PassMove = -1

	MaxX = 8
	MaxY = 8
)

// Position represents the discs on the board relative to the player to move.
type Position struct {
	player   uint64 // Bitboard for the current player's discs
	opponent uint64 // Bitboard for the opponent's discs
}

// NewPosition creates a new position from a player and opponent bitboard
func NewPosition(player, opponent uint64) (Position, error) {
	if player&opponent != 0 {
		return Position{}, fmt.Errorf("invalid position: player and opponent discs cannot overlap")
	}

	return Position{
		player:   player,
		opponent: opponent,
	}, nil
}

// NewPositionMust creates a new position from a player and opponent bitboard
// and panics if the position is invalid
func NewPositionMust(player, opponent uint64) Position {
	p, err := NewPosition(player, opponent)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPositionRandom plays random moves from the start position until the board holds the requested number of discs.
func NewPositionRandom(rng *rand.Rand, discs int) (Position, error) {
	if discs < 4 || discs > 64 {
		return Position{}, fmt.Errorf("invalid number of discs: %d", discs)
	}

	pos := NewPositionStart()

	for pos.CountDiscs() < discs {
		validMoves := pos.Moves()
		if validMoves == 0 {
			passed := pos.DoMove(PassMove)
			if !passed.HasMoves() {
				pos = NewPositionStart()
			} else {
				pos = passed
			}
			continue
		}
		move := rng.Intn(64)
		if (uint64(1)<<move)&validMoves != 0 {
			pos = pos.DoMove(move)
		}
	}

	return pos, nil
}

// NewPositionStart creates a new position with the starting position, black to move.
func NewPositionStart() Position {
	return NewPositionMust(0x0000000810000000, 0x0000001008000000)
}

// NewPositionEmpty creates a new position with an empty board
func NewPositionEmpty() Position {
	return NewPositionMust(0, 0)
}

// Player returns the player bitboard
func (p Position) Player() uint64 {
	return p.player
}

// Opponent returns the opponent bitboard
func (p Position) Opponent() uint64 {
	return p.opponent
}

// Empties returns the bitboard of empty squares
func (p Position) Empties() uint64 {
	return ^(p.player | p.opponent)
}

// CountDiscs returns the number of discs on the board
func (p Position) CountDiscs() int {
	return bits.OnesCount64(p.player | p.opponent)
}

// HasMoves returns whether the position has any valid moves
func (p Position) HasMoves() bool {
	return p.Moves() != 0
}

// Moves returns a bitset with all valid moves for the player
// This code is adapted from Edax
func (p Position) Moves() uint64 {
	mask := p.opponent & 0x7E7E7E7E7E7E7E7E

	flipL := mask & (p.player << 1)
	flipL |= mask & (flipL << 1)
	maskL := mask & (mask << 1)
	flipL |= maskL & (flipL << (2 * 1))
	flipL |= maskL & (flipL << (2 * 1))
	flipR := mask & (p.player >> 1)
	flipR |= mask & (flipR >> 1)
	maskR := mask & (mask >> 1)
	flipR |= maskR & (flipR >> (2 * 1))
	flipR |= maskR & (flipR >> (2 * 1))
	movesSet := (flipL << 1) | (flipR >> 1)

	flipL = mask & (p.player << 7)
	flipL |= mask & (flipL << 7)
	maskL = mask & (mask << 7)
	flipL |= maskL & (flipL << (2 * 7))
	flipL |= maskL & (flipL << (2 * 7))
	flipR = mask & (p.player >> 7)
	flipR |= mask & (flipR >> 7)
	maskR = mask & (mask >> 7)
	flipR |= maskR & (flipR >> (2 * 7))
	flipR |= maskR & (flipR >> (2 * 7))
	movesSet |= (flipL << 7) | (flipR >> 7)

	flipL = mask & (p.player << 9)
	flipL |= mask & (flipL << 9)
	maskL = mask & (mask << 9)
	flipL |= maskL & (flipL << (2 * 9))
	flipL |= maskL & (flipL << (2 * 9))
	flipR = mask & (p.player >> 9)
	flipR |= mask & (flipR >> 9)
	maskR = mask & (mask >> 9)
	flipR |= maskR & (flipR >> (2 * 9))
	flipR |= maskR & (flipR >> (2 * 9))
	movesSet |= (flipL << 9) | (flipR >> 9)

	flipL = p.opponent & (p.player << 8)
	flipL |= p.opponent & (flipL << 8)
	maskL = p.opponent & (p.opponent << 8)
	flipL |= maskL & (flipL << (2 * 8))
	flipL |= maskL & (flipL << (2 * 8))
	flipR = p.opponent & (p.player >> 8)
	flipR |= p.opponent & (flipR >> 8)
	maskR = p.opponent & (p.opponent >> 8)
	flipR |= maskR & (flipR >> (2 * 8))
	flipR |= maskR & (flipR >> (2 * 8))
	movesSet |= (flipL << 8) | (flipR >> 8)

	movesSet &^= p.player | p.opponent
	return movesSet
}

// directions lists all eight (dx, dy) steps a capture can run along.
var directions = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Flipped returns a bitset with all the opponent discs that would be flipped if the player played on the given move
func (p Position) Flipped(move int) uint64 {
	if move < 0 || move >= 64 {
		return 0
	}

	moveBit := uint64(1) << move

	// If we try to play on an occupied square, this is an invalid move
	if (p.player|p.opponent)&moveBit != 0 {
		return 0
	}

	flipped := uint64(0)

	for _, dir := range directions {
		flipped |= p.flippedInDirection(move, dir[0], dir[1])
	}

	return flipped
}

// flippedInDirection returns the opponent discs bracketed in one direction, or 0 if that direction does not capture.
func (p Position) flippedInDirection(move, dx, dy int) uint64 {
	run := uint64(0)

	x := (move % MaxX) + dx
	y := (move / MaxX) + dy

	for x >= 0 && x < MaxX && y >= 0 && y < MaxY {
		curBit := uint64(1) << (y*MaxX + x)

		switch {
		case p.opponent&curBit != 0:
			run |= curBit
		case p.player&curBit != 0:
			return run
		default:
			return 0
		}

		x += dx
		y += dy
	}

	return 0
}

// DoMove does a move on the position. Invalid moves leave the position unchanged.
func (p Position) DoMove(move int) Position {
	if move == PassMove {
		return Position{
			player:   p.opponent,
			opponent: p.player,
		}
	}

	flipped := p.Flipped(move)

	if flipped == 0 {
		return p
	}

	return p.apply(move, flipped)
}

// apply places a disc and flips the given discs without checking legality.
func (p Position) apply(move int, flipped uint64) Position {
	moveBit := uint64(1) << move

	opp := p.player | flipped | moveBit
	me := p.opponent &^ opp

	return Position{
		player:   me,
		opponent: opp,
	}
}

// IsValidMove checks if a move is valid
func (p Position) IsValidMove(move int) bool {
	if move < PassMove || move >= 64 {
		return false
	}

	validMoves := p.Moves()

	if validMoves == 0 {
		return move == PassMove
	}

	return move != PassMove && validMoves&(uint64(1)<<move) != 0
}

// IsGameEnd returns whether neither player can place a disc.
func (p Position) IsGameEnd() bool {
	return !p.HasMoves() && !p.DoMove(PassMove).HasMoves()
}

// GetFinalScore returns the disc difference from the player's perspective, with empties going to the winner.
func (p Position) GetFinalScore() int {
	me := bits.OnesCount64(p.player)
	opp := bits.OnesCount64(p.opponent)
	empties := 64 - me - opp

	switch {
	case me > opp:
		return me - opp + empties
	case opp > me:
		return me - opp - empties
	default:
		return 0
	}
}

// GetChildren returns all positions reachable with one move, in move index order.
func (p Position) GetChildren() []Position {
	moves := p.Moves()
	children := make([]Position, 0, bits.OnesCount64(moves))

	for moves != 0 {
		move := bits.TrailingZeros64(moves)
		moves &= moves - 1
		children = append(children, p.apply(move, p.Flipped(move)))
	}

	return children
}
