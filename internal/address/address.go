// Package address classifies and normalizes wallet addresses accepted by the waitlist.
package address

import (
	"regexp"
	"strings"
)

// Kind is the chain-address format an address was recognised as.
type Kind string

const (
	KindEthereum Kind = "ethereum"
	KindFuel     Kind = "fuel"
	KindInvalid  Kind = "invalid"
)

const (
	hexPrefix    = "0x"
	bech32Prefix = "fuel1"

	ethereumLen   = 42
	fuelB256Len   = 66
	fuelBech32Len = 63
)

var (
	ethereumRe   = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	fuelB256Re   = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	fuelBech32Re = regexp.MustCompile(`^fuel1[a-z0-9]{58}$`)
)

// Result is the outcome of Validate.
type Result struct {
	Valid      bool
	Kind       Kind
	Normalized string

	// Reason is a human readable explanation for invalid input, empty otherwise.
	Reason string
}

// Validate trims raw and matches it against the known address shapes.
// Hex forms are lowercased, the bech32 form is kept as-is.
func Validate(raw string) Result {
	addr := strings.TrimSpace(raw)

	switch {
	case ethereumRe.MatchString(addr):
		return Result{Valid: true, Kind: KindEthereum, Normalized: strings.ToLower(addr)}
	case fuelB256Re.MatchString(addr):
		return Result{Valid: true, Kind: KindFuel, Normalized: strings.ToLower(addr)}
	case fuelBech32Re.MatchString(addr):
		return Result{Valid: true, Kind: KindFuel, Normalized: addr}
	}

	return Result{
		Valid:      false,
		Kind:       KindInvalid,
		Normalized: addr,
		Reason:     reason(addr),
	}
}

func reason(addr string) string {
	switch {
	case addr == "":
		return "Wallet address is required"
	case strings.HasPrefix(addr, hexPrefix) && len(addr) != ethereumLen && len(addr) != fuelB256Len:
		return "Invalid address format (Ethereum: 42 chars, Fuel B256: 66 chars)"
	case strings.HasPrefix(addr, bech32Prefix) && len(addr) != fuelBech32Len:
		return "Invalid Fuel address format (should be 63 characters)"
	}
	return "Invalid wallet address format. Please enter a valid Ethereum (0x...), Fuel Bech32 (fuel1...), or Fuel B256 (0x...) address"
}
