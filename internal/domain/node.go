package domain

// Grid cell identifier in [1, N²], numbered left to right, top to bottom.
type Node int
