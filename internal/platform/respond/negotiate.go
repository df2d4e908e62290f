package respond

import (
	"strconv"
	"strings"
)

type acceptRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges. A missing or invalid q
// counts as 1. A bare type without a slash is read as type/*.
func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		params := strings.Split(part, ";")
		media := strings.ToLower(strings.TrimSpace(params[0]))
		ar := acceptRange{q: 1.0}
		if typ, subtype, ok := strings.Cut(media, "/"); ok {
			ar.typ, ar.subtype = typ, subtype
		} else {
			ar.typ, ar.subtype = media, "*"
		}
		for _, p := range params[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || strings.ToLower(strings.TrimSpace(key)) != "q" {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || q < 0 || q > 1 {
				q = 1.0
			}
			ar.q = q
		}
		ranges = append(ranges, ar)
	}
	return ranges
}

// quality returns the q of the most specific range matching application/<subtype>,
// or 0 when nothing matches. Specificity: exact, then *+suffix, then application/*, then */*.
func quality(ranges []acceptRange, subtype string) float64 {
	best, bestRank := 0.0, -1
	for _, ar := range ranges {
		rank := -1
		switch {
		case ar.typ == "application" && ar.subtype == subtype:
			rank = 3
		case ar.typ == "application" && ar.subtype == "*+"+subtype:
			rank = 2
		case ar.typ == "application" && ar.subtype == "*":
			rank = 1
		case ar.typ == "*" && ar.subtype == "*":
			rank = 0
		}
		if rank > bestRank {
			best, bestRank = ar.q, rank
		}
	}
	return best
}

// selectFormat reports whether the client prefers CBOR over JSON. Ties and
// unmatched headers fall back to JSON.
func selectFormat(accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return false
	}
	ranges := parseAccept(accept)
	cborQ := quality(ranges, "cbor")
	jsonQ := quality(ranges, "json")
	return cborQ > 0 && cborQ > jsonQ
}
