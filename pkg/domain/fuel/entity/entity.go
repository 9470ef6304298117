package entity

import "strings"

type TransactionID string
type Grade string
type UserID string
type VesselRef string

// Kind is the raw `type` tag as stored by whoever recorded the transaction.
type Kind string

const (
	KindPurchase     Kind = "purchase"
	KindSale         Kind = "sale"
	KindDrain        Kind = "drain"
	KindBaseToBunker Kind = "base_to_bunker"
	KindBunkerToBase Kind = "bunker_to_base"
)

func (k Kind) Normalize() Kind {
	return Kind(strings.ToLower(strings.TrimSpace(string(k))))
}

// Operation is the closed set of fuel operations the balance math understands.
type Operation int

const (
	Unrecognized Operation = iota
	Purchase
	Sale
	Drain
	BaseToBunker
	BunkerToBase
)

func (o Operation) String() string {
	switch o {
	case Purchase:
		return "purchase"
	case Sale:
		return "sale"
	case Drain:
		return "drain"
	case BaseToBunker:
		return "base_to_bunker"
	case BunkerToBase:
		return "bunker_to_base"
	}
	return "unrecognized"
}
