package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ArtifactKeyOpts holds the render options that affect artifact bytes.
type ArtifactKeyOpts struct {
	Format           string  `json:"format"`
	Layout           string  `json:"layout,omitempty"`
	NormalizeViewBox bool    `json:"normalize_viewbox,omitempty"`
	Scale            float64 `json:"scale,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered format of a document.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>" over the document hash and options.
func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}

// ScopedKeyer prefixes another Keyer's keys. The server scopes its keys
// apart from the CLI when both share one Redis instance.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer prepending prefix to inner's keys. A nil
// inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}

// DocumentHash identifies a compiled DOT document and stylesheet pair. The
// two texts are hashed as separate JSON strings so their boundary matters.
func DocumentHash(dot, css string) string {
	return hashKey("doc", dot, css)
}

// Hash is the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:<sha256 of the JSON encoded parts>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
