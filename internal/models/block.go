package models

// Block is one KIND { params } unit from a ZWOM source: a block kind, its
// parameter map (keys unique within the block), and any rider messages in
// parse order.
type Block struct {
	Tag      Tag
	Params   map[Tag]Value
	Messages []Message
}

// Workout is an ordered block sequence. When non-empty, a validated
// Workout's first block is always META, and repeat markers have been
// expanded away.
type Workout []Block
