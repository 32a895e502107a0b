// Package avatar generates deterministic avatar image URLs so agents get a
// stable visual identity without storing image assets.
package avatar

import (
	"fmt"
	"net/url"
)

const (
	baseURL        = "https://api.dicebear.com/9.x"
	defaultVariant = "botttsNeutral"
)

// URI returns a DiceBear avatar URL for the given seed. The same seed always
// produces the same URL.
func URI(seed string) string {
	return URIWithVariant(seed, defaultVariant)
}

// URIWithVariant returns a DiceBear avatar URL for a specific style variant.
func URIWithVariant(seed, variant string) string {
	if variant == "" {
		variant = defaultVariant
	}
	return fmt.Sprintf("%s/%s/svg?seed=%s", baseURL, variant, url.QueryEscape(seed))
}
