// Package shader assembles and compiles the shader variants selected
// by a program configuration's cache key.
//
// Shader semantics live in the base WGSL sources owned by the
// renderer; this package only splices in the compile-time flags the
// binders emit (HAS_UNIFORM_*) and caches the compiled SPIR-V per
// cache key so every tile sharing a binding shape reuses one module.
package shader

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/naga"
)

// BuildSource prepends the define flags to a base WGSL source as
// boolean constants. Base sources gate attribute reads on them; a
// flag that is never emitted must be declared false by the base
// source itself.
func BuildSource(base string, defines []string) string {
	if len(defines) == 0 {
		return base
	}
	var sb strings.Builder
	for _, d := range defines {
		fmt.Fprintf(&sb, "const %s: bool = true;\n", d)
	}
	sb.WriteString(base)
	return sb.String()
}

// CompileFunc compiles WGSL source to SPIR-V bytes. The default is
// naga.Compile.
type CompileFunc func(wgsl string) ([]byte, error)

// Variant is one compiled shader variant.
type Variant struct {
	// CacheKey is the program configuration key the variant was
	// compiled for.
	CacheKey string

	// SPIRV is the compiled bytecode as uint32 words.
	SPIRV []uint32
}

// VariantCache caches compiled shader variants keyed by the program
// configuration cache key. It is safe for concurrent use.
type VariantCache struct {
	mu       sync.RWMutex
	compile  CompileFunc
	variants map[string]*Variant

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewVariantCache creates a cache. A nil compile function selects
// naga.Compile.
func NewVariantCache(compile CompileFunc) *VariantCache {
	if compile == nil {
		compile = naga.Compile
	}
	return &VariantCache{
		compile:  compile,
		variants: make(map[string]*Variant),
	}
}

// Get returns the compiled variant for cacheKey, compiling
// BuildSource(base, defines) on the first request.
func (c *VariantCache) Get(cacheKey, base string, defines []string) (*Variant, error) {
	c.mu.RLock()
	v := c.variants[cacheKey]
	c.mu.RUnlock()
	if v != nil {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	spirvBytes, err := c.compile(BuildSource(base, defines))
	if err != nil {
		return nil, fmt.Errorf("shader: failed to compile variant %q: %w", cacheKey, err)
	}

	v = &Variant{CacheKey: cacheKey, SPIRV: spirvWords(spirvBytes)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing := c.variants[cacheKey]; existing != nil {
		return existing, nil
	}
	c.variants[cacheKey] = v
	return v, nil
}

// Len returns the number of cached variants.
func (c *VariantCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.variants)
}

// Stats returns the hit and miss counters.
func (c *VariantCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// spirvWords converts SPIR-V bytes to little-endian uint32 words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
