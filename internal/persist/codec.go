package persist

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/five82/storefront/internal/cart"
	"github.com/five82/storefront/internal/product"
	"github.com/five82/storefront/internal/store"
)

// MetaKey is the envelope entry that carries persistence metadata.
const MetaKey = "_persist"

// Version is written into every envelope. Migrations are not supported.
const Version = -1

type meta struct {
	Version    int  `json:"version"`
	Rehydrated bool `json:"rehydrated"`
}

// EncodeSlice returns the JSON encoding of one named slice of s.
func EncodeSlice(s store.RootState, slice string) (string, error) {
	var v any
	switch slice {
	case store.SliceCart:
		v = s.Cart
	case store.SliceProduct:
		v = s.Product
	default:
		return "", errors.Errorf("unknown slice %q", slice)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", slice)
	}
	return string(b), nil
}

// Encode builds the stored envelope for the whitelisted slices of s: a
// JSON object mapping each slice name to that slice's own JSON text, plus
// the metadata entry.
func Encode(s store.RootState, whitelist []string) (string, error) {
	slices := make(map[string]string, len(whitelist))
	for _, name := range whitelist {
		enc, err := EncodeSlice(s, name)
		if err != nil {
			return "", err
		}
		slices[name] = enc
	}
	return encodeEnvelope(slices)
}

func encodeEnvelope(slices map[string]string) (string, error) {
	m, err := json.Marshal(meta{Version: Version, Rehydrated: true})
	if err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}
	outer := make(map[string]string, len(slices)+1)
	for k, v := range slices {
		outer[k] = v
	}
	outer[MetaKey] = string(m)
	b, err := json.Marshal(outer)
	if err != nil {
		return "", errors.Wrap(err, "encode envelope")
	}
	return string(b), nil
}

// Decode parses an envelope and returns the rehydrate action for the
// whitelisted slices it contains, together with the raw slice encodings.
// Any malformed layer fails the whole decode, as does a cart that breaks
// its invariants.
func Decode(blob string, whitelist []string) (store.Rehydrate, map[string]string, error) {
	var outer map[string]string
	if err := json.Unmarshal([]byte(blob), &outer); err != nil {
		return store.Rehydrate{}, nil, errors.Wrap(err, "decode envelope")
	}

	var r store.Rehydrate
	raw := make(map[string]string, len(whitelist))
	for _, name := range whitelist {
		enc, ok := outer[name]
		if !ok {
			continue
		}
		switch name {
		case store.SliceCart:
			c := cart.Initial()
			if err := json.Unmarshal([]byte(enc), &c); err != nil {
				return store.Rehydrate{}, nil, errors.Wrapf(err, "decode %s", name)
			}
			if c.Items == nil {
				c.Items = []cart.Item{}
			}
			if err := c.Validate(); err != nil {
				return store.Rehydrate{}, nil, errors.Wrapf(err, "decode %s", name)
			}
			r.Cart = &c
		case store.SliceProduct:
			p := product.Initial()
			if err := json.Unmarshal([]byte(enc), &p); err != nil {
				return store.Rehydrate{}, nil, errors.Wrapf(err, "decode %s", name)
			}
			r.Product = &p
		default:
			return store.Rehydrate{}, nil, errors.Errorf("unknown slice %q", name)
		}
		raw[name] = enc
	}
	return r, raw, nil
}
